package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// runCmd executes a single request and exits.
var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Process a single request and exit",
	Long: `Processes one natural language request through the full pipeline
and prints the result.

Example:
  ocode run "show me the git status"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		reply, err := a.session.ProcessTurn(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(replyStyle.Render(reply))
		return nil
	},
}

// runChat starts the interactive loop.
func runChat(ctx context.Context) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.client.IsAvailable(ctx) {
		return fmt.Errorf("ollama is not reachable at %s (is it running?)", cfg.Model.URL)
	}

	fmt.Println(titleStyle.Render("ocode") + " " + dimStyle.Render("("+cfg.Model.Name+")"))
	fmt.Println(dimStyle.Render("Type /help for commands, /exit to quit."))

	if resumeLast {
		resumed, err := a.resumeLastSession()
		if err != nil {
			fmt.Println(errorStyle.Render("Could not resume previous session: " + err.Error()))
		} else if resumed {
			fmt.Println(dimStyle.Render("Resumed context from your previous session."))
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(promptStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := handleSlashCommand(a, input); done {
				return nil
			}
			continue
		}

		reply, err := a.session.ProcessTurn(ctx, input)
		if err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			continue
		}
		fmt.Println(replyStyle.Render(reply))
	}
}

// handleSlashCommand processes an interactive command. Returns true when
// the loop should exit.
func handleSlashCommand(a *app, input string) bool {
	switch strings.Fields(input)[0] {
	case "/exit", "/quit":
		return true
	case "/help":
		fmt.Println(dimStyle.Render(`Commands:
  /help          show this help
  /stats         show session statistics
  /cache         show cache statistics
  /clear-cache   clear the response cache
  /exit          quit`))
	case "/stats":
		printSessionStats(a)
	case "/cache":
		printCacheStats(a)
	case "/clear-cache":
		if a.cache != nil {
			a.cache.Clear()
			fmt.Println(dimStyle.Render("Cache cleared."))
		}
	default:
		fmt.Println(errorStyle.Render("Unknown command: " + input))
	}
	return false
}

func printSessionStats(a *app) {
	s := a.session.Stats()
	fmt.Printf("Uptime: %s\n", s.Uptime)
	fmt.Printf("Requests: %d (avg %.0f ms)\n", s.RequestCount, s.AvgLatencyMs)
	fmt.Printf("Tools: %d\n", s.ToolCount)
	fmt.Printf("Cache hits: %d\n", s.CacheHits)
	fmt.Printf("Errors: %d\n", s.ErrorCount)
	if s.HistorySize > 0 {
		fmt.Printf("History: %.1f KB\n", float64(s.HistorySize)/1024)
	}
}

func printCacheStats(a *app) {
	if a.cache == nil {
		fmt.Println(dimStyle.Render("Cache is disabled."))
		return
	}
	s := a.cache.GetStats()
	fmt.Printf("Entries: %d\n", s.TotalEntries)
	fmt.Printf("Hits: %d (%.2f per entry)\n", s.TotalHits, s.HitRate)
	fmt.Printf("Size: %.1f KB\n", float64(s.SizeBytes)/1024)
}
