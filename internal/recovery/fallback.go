package recovery

import "strings"

// fallbackTable maps error types to fallback text generators. Types
// without an entry produce no fallback and fall through to the formatted
// error block.
var fallbackTable = map[ErrorType]func(attemptedAction string) string{
	FileNotFound:     fileNotFoundFallback,
	CommandFailed:    commandFailedFallback,
	PermissionDenied: permissionDeniedFallback,
}

func fallbackFor(errType ErrorType, attemptedAction string) string {
	gen, ok := fallbackTable[errType]
	if !ok {
		return ""
	}
	return gen(attemptedAction)
}

func fileNotFoundFallback(attemptedAction string) string {
	action := strings.ToLower(attemptedAction)
	if strings.Contains(action, "read") {
		return "I couldn't find the requested file. Would you like me to help you:\n" +
			"- Search for files with similar names\n" +
			"- List files in the current directory\n" +
			"- Create the file if it should exist"
	}
	if strings.Contains(action, "edit") {
		return "The file doesn't exist yet. I can help you:\n" +
			"- Create a new file with that name\n" +
			"- Search for files with similar names\n" +
			"- Check if you meant a different file"
	}
	return "The requested file wasn't found. Let me know how you'd like to proceed."
}

func commandFailedFallback(string) string {
	return "The command couldn't be executed. This might be because:\n" +
		"- The command isn't installed or available\n" +
		"- There's a syntax error in the command\n" +
		"- The command requires different permissions\n\n" +
		"Would you like me to help you find an alternative approach?"
}

func permissionDeniedFallback(string) string {
	return "I don't have permission to perform this operation. This could be because:\n" +
		"- The file/directory requires special permissions\n" +
		"- You need to grant permission for file operations\n" +
		"- The operation needs elevated privileges\n\n" +
		"Please check the permissions and try again."
}
