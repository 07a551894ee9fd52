// Package recovery classifies tool failures and produces suggestions and
// fallback text so that a failed tool call still yields a useful reply.
package recovery

import (
	"strings"

	"github.com/ocode-ai/ocode/internal/format"
)

// ErrorType categorizes a failure for recovery decisions.
type ErrorType int

const (
	Unknown ErrorType = iota
	ToolNotFound
	PermissionDenied
	FileNotFound
	CommandFailed
	NetworkError
	Timeout
	InvalidInput
)

// String returns the error type name.
func (t ErrorType) String() string {
	switch t {
	case ToolNotFound:
		return "tool_not_found"
	case PermissionDenied:
		return "permission_denied"
	case FileNotFound:
		return "file_not_found"
	case CommandFailed:
		return "command_failed"
	case NetworkError:
		return "network_error"
	case Timeout:
		return "timeout"
	case InvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Context carries everything recovery derived about a single failure.
type Context struct {
	Type            ErrorType
	OriginalError   string
	UserInput       string
	AttemptedAction string
	Suggestions     []string
	FallbackText    string
}

// classificationTable maps error types to message substrings. Order is
// fixed; the first category containing a match wins.
var classificationTable = []struct {
	errType  ErrorType
	patterns []string
}{
	{FileNotFound, []string{
		"no such file or directory",
		"file not found",
		"cannot find file",
		"no such file:",
	}},
	{PermissionDenied, []string{
		"permission denied",
		"access denied",
		"not allowed",
	}},
	{CommandFailed, []string{
		"command not found",
		"bad command",
		"invalid command",
	}},
	{Timeout, []string{
		"timeout",
		"timed out",
		"operation timed out",
	}},
}

var suggestionTable = map[ErrorType][]string{
	FileNotFound: {
		"Check if the file path is correct",
		"Use tab completion or file browser to find the correct path",
		"Make sure you're in the right directory",
		"Try using absolute paths instead of relative paths",
	},
	PermissionDenied: {
		"Check file permissions with 'ls -la'",
		"Try running with appropriate permissions",
		"Make sure you own the file or have write access",
		"Contact your system administrator if needed",
	},
	CommandFailed: {
		"Check if the command is installed and available",
		"Verify the command syntax is correct",
		"Try using the full path to the command",
		"Check your PATH environment variable",
	},
	ToolNotFound: {
		"The requested tool may not be available",
		"Try a different approach to accomplish your goal",
		"Check if required dependencies are installed",
	},
	NetworkError: {
		"Check your internet connection",
		"Verify the server/URL is accessible",
		"Try again in a few moments",
	},
	Timeout: {
		"The operation took too long to complete",
		"Try breaking down the task into smaller parts",
		"Check if the system is under heavy load",
	},
	InvalidInput: {
		"Check the input format and try again",
		"Refer to the help documentation for correct usage",
		"Try simplifying your request",
	},
	Unknown: {
		"Try rephrasing your request",
		"Break the task into smaller steps",
		"Check the logs for more details",
	},
}

// Classify maps an error message to an error type by case-insensitive
// substring match against the ordered classification table.
func Classify(message string) ErrorType {
	lower := strings.ToLower(message)
	for _, row := range classificationTable {
		for _, pattern := range row.patterns {
			if strings.Contains(lower, pattern) {
				return row.errType
			}
		}
	}
	return Unknown
}

// NewContext builds a recovery context for a failure.
func NewContext(err error, userInput, attemptedAction string) *Context {
	message := err.Error()
	errType := Classify(message)

	suggestions := make([]string, len(suggestionTable[errType]))
	copy(suggestions, suggestionTable[errType])

	return &Context{
		Type:            errType,
		OriginalError:   message,
		UserInput:       userInput,
		AttemptedAction: attemptedAction,
		Suggestions:     suggestions,
		FallbackText:    fallbackFor(errType, attemptedAction),
	}
}

// HandleToolError converts a tool failure into user-facing recovery text.
// The attempted action names the tool category and action, e.g.
// "file_operation read".
func HandleToolError(err error, attemptedAction, userInput string) string {
	ctx := NewContext(err, userInput, attemptedAction)
	if ctx.FallbackText != "" {
		return ctx.FallbackText
	}
	return format.Error(attemptedAction, ctx.OriginalError, ctx.Suggestions)
}

// retryBudgets holds the maximum retry count per error type. Types not
// listed never retry.
var retryBudgets = map[ErrorType]int{
	NetworkError: 2,
	Timeout:      1,
	Unknown:      1,
}

// ShouldRetry reports whether an operation that failed with the given
// error type should be attempted again.
func ShouldRetry(errType ErrorType, retryCount int) bool {
	return retryCount < retryBudgets[errType]
}
