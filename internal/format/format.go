// Package format renders structured tool results into bounded,
// deterministic text. All functions are pure: string in, string out.
// Rendering decisions (color, width) belong to the output sink.
package format

import (
	"fmt"
	"strings"

	"github.com/ocode-ai/ocode/internal/tools"
)

const (
	// maxFileLines caps file content output.
	maxFileLines = 50

	// defaultMaxResults caps listed search matches.
	defaultMaxResults = 10

	// maxUntracked caps listed untracked files in git status.
	maxUntracked = 5

	// maxContentChars caps per-match content in search results.
	maxContentChars = 80
)

// FileContent renders file content capped at 50 lines. Truncation appends
// the remaining line count.
func FileContent(filename, content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > maxFileLines {
		remaining := len(lines) - maxFileLines
		content = strings.Join(lines[:maxFileLines], "\n") +
			fmt.Sprintf("\n... (%d more lines)", remaining)
	}
	return fmt.Sprintf("%s:\n%s", filename, content)
}

// SearchResults renders grep matches with a count header, at most
// maxResults entries, and a trailer for anything beyond the cap.
func SearchResults(pattern string, results []tools.SearchMatch, maxResults int) string {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if len(results) == 0 {
		return fmt.Sprintf("No matches found for '%s'", pattern)
	}

	lines := []string{fmt.Sprintf("Found %d matches for '%s':", len(results), pattern)}
	shown := results
	if len(shown) > maxResults {
		shown = shown[:maxResults]
	}
	for _, m := range shown {
		content := strings.TrimSpace(m.Content)
		// Truncate by rune so a multi-byte character at the cap is not split.
		if runes := []rune(content); len(runes) > maxContentChars {
			content = string(runes[:maxContentChars])
		}
		lines = append(lines, fmt.Sprintf("  %s:%d - %s", m.File, m.Line, content))
	}
	if len(results) > maxResults {
		lines = append(lines, fmt.Sprintf("  ... and %d more matches", len(results)-maxResults))
	}
	return strings.Join(lines, "\n")
}

// GitStatus renders repository status: branch header, then one line per
// non-empty category, or a clean-tree line.
func GitStatus(status *tools.GitStatus) string {
	branch := status.Branch
	if branch == "" {
		branch = "unknown"
	}
	lines := []string{fmt.Sprintf("Repository: %s", branch)}

	if status.IsDirty {
		if len(status.Modified) > 0 {
			lines = append(lines, fmt.Sprintf("Modified: %s", strings.Join(status.Modified, ", ")))
		}
		if len(status.Staged) > 0 {
			lines = append(lines, fmt.Sprintf("Staged: %s", strings.Join(status.Staged, ", ")))
		}
		if len(status.Untracked) > 0 {
			untracked := status.Untracked
			more := ""
			if len(untracked) > maxUntracked {
				more = fmt.Sprintf(" (+%d more)", len(untracked)-maxUntracked)
				untracked = untracked[:maxUntracked]
			}
			lines = append(lines, fmt.Sprintf("Untracked: %s%s", strings.Join(untracked, ", "), more))
		}
	} else {
		lines = append(lines, "Working tree clean")
	}
	return strings.Join(lines, "\n")
}

// CommandResult renders a shell command outcome: the command line, then
// the error, a no-output marker, or the trimmed stdout.
func CommandResult(command, output, errText string) string {
	if errText != "" {
		return fmt.Sprintf("$ %s\nError: %s", command, errText)
	}
	if strings.TrimSpace(output) == "" {
		return fmt.Sprintf("$ %s\n(no output)", command)
	}
	return fmt.Sprintf("$ %s\n%s", command, strings.TrimRight(output, " \t\r\n"))
}

// GitLog renders recent commits, one line per entry.
func GitLog(entries []tools.GitLogEntry) string {
	lines := []string{"Recent commits:"}
	for _, e := range entries {
		hash := e.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		lines = append(lines, fmt.Sprintf("  %s - %s (%s)", hash, e.Message, e.Date))
	}
	return strings.Join(lines, "\n")
}

// Error renders a failed operation with an optional suggestion list.
func Error(operation, errText string, suggestions []string) string {
	lines := []string{fmt.Sprintf("%s failed: %s", capitalize(operation), errText)}
	if len(suggestions) > 0 {
		lines = append(lines, "", "Suggestions:")
		for _, s := range suggestions {
			lines = append(lines, fmt.Sprintf("  - %s", s))
		}
	}
	return strings.Join(lines, "\n")
}

// List renders a titled bullet list.
func List(title string, items []string) string {
	if len(items) == 0 {
		if title != "" {
			return title + ": (none)"
		}
		return "(none)"
	}
	var lines []string
	if title != "" {
		lines = append(lines, title+":")
	}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("  - %s", item))
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
