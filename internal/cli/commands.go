package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()
		printCacheStats(a)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the response cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()
		if a.cache == nil {
			fmt.Println("Cache is disabled.")
			return nil
		}
		a.cache.Clear()
		fmt.Println("Cache cleared.")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		if a.store == nil {
			fmt.Println("History is disabled.")
			return nil
		}
		sessions, err := a.store.Sessions(10)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No recorded sessions.")
			return nil
		}
		fmt.Println("Recent sessions:")
		for _, s := range sessions {
			fmt.Printf("  %s  %s  %d turns\n", s.ID[:8], s.Model, s.TurnCount)
		}
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		names, err := a.client.ListModels(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			marker := "  "
			if name == cfg.Model.Name {
				marker = "* "
			}
			fmt.Println(marker + name)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
