// Package testutil provides helpers for tests that need files on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Tree is a set of files keyed by slash-separated path relative to a root.
type Tree map[string]string

// WriteTree writes files under a fresh temporary directory and returns its
// absolute path. Parent directories are created as needed.
func WriteTree(t *testing.T, files Tree) string {
	t.Helper()

	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", name, err)
		}
	}
	return root
}

// ChdirTree writes files like WriteTree and makes the new root the working
// directory for the rest of the test.
func ChdirTree(t *testing.T, files Tree) string {
	t.Helper()

	root := WriteTree(t, files)
	t.Chdir(root)
	return root
}

// WriteFile writes a single file named name into a fresh temporary directory
// and returns its path.
func WriteFile(t *testing.T, name, data string) string {
	t.Helper()

	return filepath.Join(WriteTree(t, Tree{name: data}), filepath.FromSlash(name))
}
