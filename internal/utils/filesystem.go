package utils

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/ripenv/ripenv/internal/errors"
)

// PendingFile is a file waiting to be written by WriteFilesAtomically.
type PendingFile struct {
	Path string
	Data []byte
	Perm os.FileMode
}

// FileExists reports whether something exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFilesAtomically writes every file or none of them. All targets are
// checked for existence before anything is written; each file is staged as a
// temp file in its target directory and renamed only once every stage
// succeeded. A failed rename rolls back the renames already done for files
// that did not exist before.
func WriteFilesAtomically(files []PendingFile, force bool) error {
	if !force {
		for _, file := range files {
			if FileExists(file.Path) {
				return fmt.Errorf("%w: %s", kerrors.ErrFileExists, file.Path)
			}
		}
	}

	staged := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, file := range files {
		dir := filepath.Dir(file.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			cleanup()
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		tmp, err := os.CreateTemp(dir, "."+filepath.Base(file.Path)+".tmp-*")
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", file.Path, err)
		}
		staged = append(staged, tmp.Name())

		if _, err := tmp.Write(file.Data); err != nil {
			tmp.Close()
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", file.Path, err)
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", file.Path, err)
		}
		if err := tmp.Close(); err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", file.Path, err)
		}
		if err := os.Chmod(tmp.Name(), file.Perm); err != nil {
			cleanup()
			return fmt.Errorf("failed to set permissions on %s: %w", file.Path, err)
		}
	}

	var renamed []string
	for i, file := range files {
		existed := FileExists(file.Path)
		if err := os.Rename(staged[i], file.Path); err != nil {
			for _, path := range renamed {
				_ = os.Remove(path)
			}
			cleanup()
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		if !existed {
			renamed = append(renamed, file.Path)
		}
	}

	return nil
}
