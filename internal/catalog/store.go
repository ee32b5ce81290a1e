package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SaveFile writes the catalog to path. The file is replaced atomically, so a
// failed save leaves any previous file intact.
func SaveFile(path string, c *Catalog) (err error) {
	data, err := Encode(c.books)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return classifyIOError("create temp file", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return classifyIOError("write catalog", err)
	}
	if err = tmp.Sync(); err != nil {
		return classifyIOError("sync catalog", err)
	}
	if err = tmp.Close(); err != nil {
		return classifyIOError("close catalog", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return classifyIOError("chmod catalog", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return classifyIOError("rename catalog", err)
	}
	return nil
}

// LoadFile reads path and replaces the catalog with its contents. The catalog
// is only modified when the whole file parses and validates.
func LoadFile(path string, c *Catalog) error {
	f, err := os.Open(path)
	if err != nil {
		return classifyIOError("open catalog", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return classifyIOError("stat catalog", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileMissing, path)
	}

	return c.Deserialize(f)
}

func classifyIOError(op string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrFileMissing, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrUnknown, op, err)
	}
}
