package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTree(t *testing.T) {
	root := WriteTree(t, Tree{
		"index.html":      "<p>hi</p>",
		"docs/nested.txt": "nested",
	})

	data, err := os.ReadFile(filepath.Join(root, "docs", "nested.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "nested" {
		t.Errorf("content = %q", data)
	}
}

func TestChdirTree(t *testing.T) {
	ChdirTree(t, Tree{"a.txt": "a"})

	data, err := os.ReadFile("a.txt")
	if err != nil {
		t.Fatalf("relative read failed: %v", err)
	}
	if string(data) != "a" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "conf/serve.yaml", "port: 1")

	if filepath.Base(path) != "serve.yaml" {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stat: %v", err)
	}
}
