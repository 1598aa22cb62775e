// Package fsutil persists downloaded artifacts to the local filesystem.
//
// [FileWriter] streams into a temporary file next to the destination and
// renames it into place only after the whole stream was copied and synced.
// A failed or interrupted download therefore never leaves a partial file at
// the destination path.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileWriter writes streams to destination paths atomically.
// The zero value is ready to use.
type FileWriter struct {
	// DirMode is the mode used when creating missing parent directories.
	// Zero means 0o755.
	DirMode os.FileMode

	// FileMode is the mode of the final file. Zero means 0o644.
	FileMode os.FileMode
}

// NewFileWriter returns a FileWriter with default modes.
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// WriteStream copies r to dest and returns the number of bytes written.
//
// Parent directories are created as needed. An existing file at dest is
// replaced only on success. On any error the temporary file is removed and
// dest is left untouched.
func (w *FileWriter) WriteStream(dest string, r io.Reader) (n int64, err error) {
	if dest == "" {
		return 0, fmt.Errorf("empty destination path")
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, w.dirMode()); err != nil {
		return 0, fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err = io.Copy(tmp, r)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", dest, err)
	}
	if err = tmp.Sync(); err != nil {
		return n, fmt.Errorf("sync %s: %w", dest, err)
	}
	if err = tmp.Chmod(w.fileMode()); err != nil {
		return n, fmt.Errorf("chmod %s: %w", dest, err)
	}
	if err = tmp.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", dest, err)
	}
	if err = os.Rename(tmpName, dest); err != nil {
		return n, fmt.Errorf("rename into %s: %w", dest, err)
	}
	return n, nil
}

func (w *FileWriter) dirMode() os.FileMode {
	if w.DirMode == 0 {
		return 0o755
	}
	return w.DirMode
}

func (w *FileWriter) fileMode() os.FileMode {
	if w.FileMode == 0 {
		return 0o644
	}
	return w.FileMode
}
