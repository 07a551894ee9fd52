package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitStatus is the parsed output of a status query.
type GitStatus struct {
	Branch    string   `json:"branch"`
	Commit    string   `json:"commit"`
	Modified  []string `json:"modified"`
	Staged    []string `json:"staged"`
	Untracked []string `json:"untracked"`
	IsDirty   bool     `json:"is_dirty"`
}

// GitLogEntry is a single commit in a log query.
type GitLogEntry struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// GitOperations wraps the git porcelain for a single repository root.
type GitOperations struct {
	repoPath string
}

// NewGitOperations creates a git collaborator rooted at repoPath
// ("." when empty).
func NewGitOperations(repoPath string) *GitOperations {
	if repoPath == "" {
		repoPath = "."
	}
	return &GitOperations{repoPath: repoPath}
}

func (g *GitOperations) git(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", g.repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// IsGitRepo reports whether the root is inside a git work tree.
func (g *GitOperations) IsGitRepo(ctx context.Context) bool {
	out, err := g.git(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Status returns the repository status.
func (g *GitOperations) Status(ctx context.Context) (*GitStatus, error) {
	branch, err := g.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, err
	}

	commit, _ := g.git(ctx, "rev-parse", "--short=8", "HEAD")

	porcelain, err := g.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	status := &GitStatus{
		Branch: strings.TrimSpace(branch),
		Commit: strings.TrimSpace(commit),
	}
	parsePorcelain(porcelain, status)
	return status, nil
}

// parsePorcelain fills the file lists from `git status --porcelain` output.
func parsePorcelain(porcelain string, status *GitStatus) {
	for _, line := range strings.Split(porcelain, "\n") {
		if len(line) < 4 {
			continue
		}
		index, worktree := line[0], line[1]
		path := strings.TrimSpace(line[3:])
		switch {
		case index == '?' && worktree == '?':
			status.Untracked = append(status.Untracked, path)
		default:
			if index != ' ' && index != '?' {
				status.Staged = append(status.Staged, path)
			}
			if worktree != ' ' && worktree != '?' {
				status.Modified = append(status.Modified, path)
			}
		}
	}
	status.IsDirty = len(status.Modified) > 0 || len(status.Staged) > 0 || len(status.Untracked) > 0
}

// Diff returns the unified diff, optionally for one path or the staged set.
func (g *GitOperations) Diff(ctx context.Context, path string, staged bool) (string, error) {
	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	if path != "" {
		args = append(args, "--", path)
	}
	return g.git(ctx, args...)
}

// Log returns up to maxCount recent commits.
func (g *GitOperations) Log(ctx context.Context, maxCount int) ([]GitLogEntry, error) {
	if maxCount <= 0 {
		maxCount = 10
	}
	out, err := g.git(ctx, "log",
		fmt.Sprintf("--max-count=%d", maxCount),
		"--date=format:%Y-%m-%d %H:%M:%S",
		"--pretty=format:%h%x1f%s%x1f%an%x1f%ad")
	if err != nil {
		return nil, err
	}

	var entries []GitLogEntry
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Split(line, "\x1f")
		if len(fields) != 4 {
			continue
		}
		entries = append(entries, GitLogEntry{
			Hash:    fields[0],
			Message: fields[1],
			Author:  fields[2],
			Date:    fields[3],
		})
	}
	return entries, nil
}
