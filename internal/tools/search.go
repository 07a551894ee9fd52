package tools

import (
	"os"
	"path/filepath"
	"strings"
)

// SearchMatch is a single grep hit.
type SearchMatch struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// SearchOperations wraps content search over a directory tree.
type SearchOperations struct {
	root string
}

// NewSearchOperations creates a search collaborator rooted at root
// ("." when empty).
func NewSearchOperations(root string) *SearchOperations {
	if root == "" {
		root = "."
	}
	return &SearchOperations{root: root}
}

var skipDirs = map[string]bool{
	".git":         true,
	".idea":        true,
	"node_modules": true,
	"vendor":       true,
}

// GrepFiles finds lines containing pattern, up to maxResults matches.
func (s *SearchOperations) GrepFiles(pattern string, maxResults int) ([]SearchMatch, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	var matches []SearchMatch
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(matches) >= maxResults {
			return filepath.SkipAll
		}
		if isBinaryExt(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if !strings.Contains(string(content), pattern) {
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			rel = path
		}
		for i, line := range strings.Split(string(content), "\n") {
			if strings.Contains(line, pattern) {
				matches = append(matches, SearchMatch{
					File:    rel,
					Line:    i + 1,
					Content: line,
				})
				if len(matches) >= maxResults {
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func isBinaryExt(ext string) bool {
	binaryExts := map[string]bool{
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".bin": true, ".dat": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".ico": true, ".bmp": true, ".webp": true,
		".pdf": true, ".zip": true, ".tar": true, ".gz": true,
		".7z": true, ".rar": true,
		".mp3": true, ".mp4": true, ".wav": true, ".avi": true,
		".ttf": true, ".otf": true, ".woff": true, ".woff2": true,
	}
	return binaryExts[ext]
}
