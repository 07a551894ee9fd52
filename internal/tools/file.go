// Package tools provides the narrow OS-facing collaborators the executor
// dispatches to: file I/O, git porcelain, content search, and shell
// command execution.
package tools

import (
	"os"
	"path/filepath"
)

// FileOperations wraps file reads and writes. Writes are permission-gated
// by the caller, not here.
type FileOperations struct{}

// NewFileOperations creates a file collaborator.
func NewFileOperations() *FileOperations {
	return &FileOperations{}
}

// ReadFile returns the file's content.
func (f *FileOperations) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes content to path, creating parent directories as needed.
func (f *FileOperations) WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Exists reports whether the path exists.
func (f *FileOperations) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
