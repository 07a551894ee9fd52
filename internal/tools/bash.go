package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds subprocess execution.
const DefaultCommandTimeout = 30 * time.Second

// CommandResult is the outcome of a shell command execution.
type CommandResult struct {
	Success    bool   `json:"success"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ReturnCode int    `json:"returncode"`
	Error      string `json:"error,omitempty"`
	Command    string `json:"command"`
}

// allowedCommands is the fixed whitelist of leading tokens permitted to
// execute. Anything else fails without running.
var allowedCommands = map[string]bool{
	"ls": true, "cat": true, "grep": true, "find": true, "head": true,
	"tail": true, "wc": true, "sort": true, "uniq": true,
	"pwd": true, "whoami": true, "date": true, "echo": true,
	"which": true, "type": true,
	"git": true, "npm": true, "pip": true, "python": true,
	"python3": true, "node": true, "cargo": true, "go": true,
	"pytest": true, "jest": true, "mocha": true, "make": true,
	"cmake": true,
	"tree": true, "file": true, "stat": true, "du": true, "df": true,
}

// BashOperations executes whitelisted shell commands with a timeout.
type BashOperations struct {
	timeout time.Duration
}

// NewBashOperations creates a bash collaborator. A non-positive timeout
// falls back to the default.
func NewBashOperations(timeout time.Duration) *BashOperations {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &BashOperations{timeout: timeout}
}

// RunCommand executes a command after validating it against the
// whitelist. Commands are run directly, not through a shell.
func (b *BashOperations) RunCommand(ctx context.Context, command, cwd string) *CommandResult {
	args, err := splitCommand(command)
	if err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("invalid command syntax: %v", err),
			Command: command,
		}
	}
	if len(args) == 0 {
		return &CommandResult{Success: false, Error: "empty command", Command: command}
	}

	base := args[0]
	if !allowedCommands[base] {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("command '%s' not allowed for security reasons", base),
			Command: command,
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, base, args[1:]...)
	if cwd != "" {
		cmd.Dir = cwd
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	result := &CommandResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Command: command,
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		result.Error = fmt.Sprintf("command timed out after %d seconds", int(b.timeout.Seconds()))
	case runErr != nil:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ReturnCode = exitErr.ExitCode()
		} else {
			result.Error = fmt.Sprintf("command not found: %s", base)
		}
	default:
		result.Success = true
	}
	return result
}

// splitCommand tokenizes a command line, honoring single and double
// quotes. Unterminated quotes are an error.
func splitCommand(command string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote rune
	inToken := false

	for _, r := range command {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inToken {
		args = append(args, current.String())
	}
	return args, nil
}
