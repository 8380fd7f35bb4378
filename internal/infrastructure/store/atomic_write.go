package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/doeshing/readerstate/internal/domain"
)

// RenameError is returned when the final rename of an atomic write fails.
// The temporary file has already been removed when this error is seen.
type RenameError struct {
	Err      error
	tempPath string
}

func (e RenameError) Error() string {
	return fmt.Sprintf("failed to rename temp file %s: %v", e.tempPath, e.Err)
}

func (e RenameError) Unwrap() error { return e.Err }

// TempPath returns the temporary file that was to be renamed.
func (e RenameError) TempPath() string { return e.tempPath }

// testHookBeforeRename simulates a crash between writing and renaming.
var testHookBeforeRename func() error

// AtomicWriteFile writes data to a temp file in the target directory, syncs it
// and renames it over filename. Readers observe either the old or the new
// content, never a partial write. Failures are returned as *domain.IoError.
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return &domain.IoError{Op: "mkdir", Path: dir, Err: err}
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return &domain.IoError{Op: "create", Path: dir, Err: err}
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return &domain.IoError{Op: "write", Path: tempPath, Err: err}
	}
	if err := tempFile.Sync(); err != nil {
		return &domain.IoError{Op: "sync", Path: tempPath, Err: err}
	}
	if err := tempFile.Close(); err != nil {
		return &domain.IoError{Op: "close", Path: tempPath, Err: err}
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return &domain.IoError{Op: "chmod", Path: tempPath, Err: err}
	}

	if testHookBeforeRename != nil {
		if err := testHookBeforeRename(); err != nil {
			return &domain.IoError{Op: "write", Path: filename, Err: err}
		}
	}

	if err := os.Rename(tempPath, filename); err != nil {
		return &domain.IoError{Op: "rename", Path: filename, Err: RenameError{Err: err, tempPath: tempPath}}
	}
	success = true
	return nil
}
