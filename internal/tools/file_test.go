package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOperations_ReadWrite(t *testing.T) {
	f := NewFileOperations()
	path := filepath.Join(t.TempDir(), "a.txt")

	require.NoError(t, f.WriteFile(path, "hello"))

	got, err := f.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestFileOperations_WriteCreatesParents(t *testing.T) {
	f := NewFileOperations()
	path := filepath.Join(t.TempDir(), "deep", "nested", "a.txt")

	require.NoError(t, f.WriteFile(path, "x"))
	assert.True(t, f.Exists(path))
}

func TestFileOperations_ReadMissing(t *testing.T) {
	f := NewFileOperations()

	_, err := f.ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileOperations_Exists(t *testing.T) {
	f := NewFileOperations()
	dir := t.TempDir()

	assert.True(t, f.Exists(dir))
	assert.False(t, f.Exists(filepath.Join(dir, "nope")))
}
