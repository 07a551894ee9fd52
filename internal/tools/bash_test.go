package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_Success(t *testing.T) {
	b := NewBashOperations(0)

	result := b.RunCommand(context.Background(), "echo hello", "")

	assert.True(t, result.Success)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Empty(t, result.Error)
	assert.Zero(t, result.ReturnCode)
}

func TestRunCommand_WhitelistRejection(t *testing.T) {
	b := NewBashOperations(0)

	tests := []struct {
		command string
		base    string
	}{
		{"rm -rf /", "rm"},
		{"curl http://example.com", "curl"},
		{"sudo ls", "sudo"},
		{"bash -c 'ls'", "bash"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			result := b.RunCommand(context.Background(), tt.command, "")
			assert.False(t, result.Success)
			assert.Equal(t, "command '"+tt.base+"' not allowed for security reasons", result.Error)
		})
	}
}

func TestRunCommand_EmptyCommand(t *testing.T) {
	b := NewBashOperations(0)

	result := b.RunCommand(context.Background(), "   ", "")

	assert.False(t, result.Success)
	assert.Equal(t, "empty command", result.Error)
}

func TestRunCommand_NonZeroExit(t *testing.T) {
	b := NewBashOperations(0)

	result := b.RunCommand(context.Background(), "ls /definitely/not/a/path", "")

	assert.False(t, result.Success)
	assert.NotZero(t, result.ReturnCode)
	assert.NotEmpty(t, result.Stderr)
}

func TestRunCommand_Timeout(t *testing.T) {
	b := NewBashOperations(100 * time.Millisecond)

	start := time.Now()
	result := b.RunCommand(context.Background(), "tail -f /dev/null", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunCommand_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	b := NewBashOperations(0)

	result := b.RunCommand(context.Background(), "pwd", dir)

	require.True(t, result.Success)
	assert.Contains(t, result.Stdout, dir)
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
		wantErr bool
	}{
		{"simple", "ls -la", []string{"ls", "-la"}, false},
		{"double quotes", `grep "hello world" file.txt`, []string{"grep", "hello world", "file.txt"}, false},
		{"single quotes", "echo 'a b'", []string{"echo", "a b"}, false},
		{"extra spaces", "  ls   -la  ", []string{"ls", "-la"}, false},
		{"empty quoted arg preserved", `echo "" x`, []string{"echo", "", "x"}, false},
		{"unterminated", `echo "oops`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitCommand(tt.command)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
