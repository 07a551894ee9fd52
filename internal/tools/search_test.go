package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestGrepFiles_FindsMatchesWithLineNumbers(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go": "package a\n// TODO fix this\nfunc A() {}\n",
		"b.go": "package b\n",
	})

	s := NewSearchOperations(root)
	matches, err := s.GrepFiles("TODO", 10)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a.go", matches[0].File)
	assert.Equal(t, 2, matches[0].Line)
	assert.Equal(t, "// TODO fix this", matches[0].Content)
}

func TestGrepFiles_RelativePathsInSubdirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		filepath.Join("pkg", "c.go"): "needle\n",
	})

	s := NewSearchOperations(root)
	matches, err := s.GrepFiles("needle", 10)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join("pkg", "c.go"), matches[0].File)
}

func TestGrepFiles_SkipsVendoredDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		filepath.Join("node_modules", "x.js"): "needle\n",
		filepath.Join(".git", "config"):       "needle\n",
		filepath.Join("vendor", "y.go"):       "needle\n",
		"z.go":                                "needle\n",
	})

	s := NewSearchOperations(root)
	matches, err := s.GrepFiles("needle", 10)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "z.go", matches[0].File)
}

func TestGrepFiles_SkipsBinaryExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"img.png": "needle",
		"a.txt":   "needle",
	})

	s := NewSearchOperations(root)
	matches, err := s.GrepFiles("needle", 10)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a.txt", matches[0].File)
}

func TestGrepFiles_CapsResults(t *testing.T) {
	root := t.TempDir()
	content := ""
	for i := 0; i < 20; i++ {
		content += "needle\n"
	}
	writeTree(t, root, map[string]string{"big.txt": content})

	s := NewSearchOperations(root)
	matches, err := s.GrepFiles("needle", 5)

	require.NoError(t, err)
	assert.Len(t, matches, 5)
}

func TestGrepFiles_NoMatches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "nothing here\n"})

	s := NewSearchOperations(root)
	matches, err := s.GrepFiles("needle", 10)

	require.NoError(t, err)
	assert.Empty(t, matches)
}
