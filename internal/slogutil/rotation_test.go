package slogutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingFile_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	rf, err := OpenRotatingFile(path, 50, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}

	line := append(bytes.Repeat([]byte{'a'}, 29), '\n')
	for i := 0; i < 5; i++ {
		if _, err := rf.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}
	if err := rf.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should exist: %v", filepath.Base(p), err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("only 2 backups should be kept")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != len(line) {
		t.Errorf("current file has %d bytes, want %d", len(data), len(line))
	}
}

func TestRotatingFile_NoRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plain.log")

	w, err := OpenLogFile(path, "", 3)
	if err != nil {
		t.Fatalf("OpenLogFile failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		if _, err := w.Write([]byte("hello world\n")); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("no backup should exist without a max size")
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestOpenLogFile_Sizes(t *testing.T) {
	dir := t.TempDir()

	w, err := OpenLogFile(filepath.Join(dir, "kb.log"), "1KiB", 1)
	if err != nil {
		t.Fatalf("OpenLogFile failed: %v", err)
	}
	defer w.Close()
	if rf, ok := w.(*RotatingFile); !ok || rf.maxSize != 1024 {
		t.Errorf("writer = %#v, want a RotatingFile limited to 1024 bytes", w)
	}

	if _, err := OpenLogFile(filepath.Join(dir, "bad.log"), "10XB", 1); err == nil {
		t.Error("OpenLogFile should reject an unparseable max size")
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.log")); !os.IsNotExist(err) {
		t.Error("no file should be created for an unparseable max size")
	}
}
