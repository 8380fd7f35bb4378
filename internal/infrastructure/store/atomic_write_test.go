package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "test.json")

		if err := AtomicWriteFile(filename, []byte("hello world"), 0o600); err != nil {
			t.Fatalf("AtomicWriteFile failed: %v", err)
		}

		readData, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read back file: %v", err)
		}
		if string(readData) != "hello world" {
			t.Errorf("File content mismatch: got %q", string(readData))
		}
	})

	t.Run("write to nested directory", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "a", "b", "c", "test.json")

		if err := AtomicWriteFile(filename, []byte("nested"), 0o600); err != nil {
			t.Fatalf("AtomicWriteFile with nested dirs failed: %v", err)
		}
		if _, err := os.Stat(filename); err != nil {
			t.Fatalf("expected file to exist: %v", err)
		}
	})

	t.Run("rename failure and cleanup", func(t *testing.T) {
		// A directory where the target file should be makes Rename fail.
		tempDir := t.TempDir()
		filename := filepath.Join(tempDir, "test.json")
		if err := os.Mkdir(filename, 0o755); err != nil {
			t.Fatalf("Failed to create conflicting directory: %v", err)
		}

		err := AtomicWriteFile(filename, []byte("data"), 0o600)
		if err == nil {
			t.Fatal("Expected an error but got none")
		}

		var renameErr RenameError
		if !errors.As(err, &renameErr) {
			t.Fatalf("Expected RenameError in chain, got %T: %v", err, err)
		}
		if _, statErr := os.Stat(renameErr.TempPath()); !os.IsNotExist(statErr) {
			t.Errorf("Temporary file %q was not cleaned up after rename failure", renameErr.TempPath())
		}
	})

	t.Run("crash before rename keeps previous content", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "test.json")
		if err := os.WriteFile(filename, []byte("old"), 0o600); err != nil {
			t.Fatal(err)
		}

		testHookBeforeRename = func() error { return errors.New("simulated crash") }
		t.Cleanup(func() { testHookBeforeRename = nil })

		if err := AtomicWriteFile(filename, []byte("new"), 0o600); err == nil {
			t.Fatal("Expected an error but got none")
		}

		data, err := os.ReadFile(filename)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "old" {
			t.Errorf("previous content lost: %q", string(data))
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the target file to remain, found %d entries", len(entries))
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "parent")
		if err := os.WriteFile(parent, []byte("file"), 0o644); err != nil {
			t.Fatal(err)
		}

		err := AtomicWriteFile(filepath.Join(parent, "test.json"), []byte("data"), 0o600)
		if err == nil {
			t.Fatal("Expected an error but got none")
		}
	})
}
