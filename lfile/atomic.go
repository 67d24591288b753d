// Package lfile replaces files so readers never observe a partial write.
package lfile

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteAtomic writes data to a temporary file next to path, syncs it and
// renames it over path. On failure the original file is left untouched.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "lfile.WriteAtomic error: create temp file for path=%s", path)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.Wrapf(err, "lfile.WriteAtomic error: write path=%s", tmpPath)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return errors.Wrapf(err, "lfile.WriteAtomic error: chmod path=%s", tmpPath)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrapf(err, "lfile.WriteAtomic error: sync path=%s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "lfile.WriteAtomic error: close path=%s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "lfile.WriteAtomic error: rename to path=%s", path)
	}
	return nil
}

// Commit is one pending replacement.
type Commit struct {
	Path string
	Data []byte
}

// WriteAllAtomic replaces every file in order, stopping at the first
// failure. Files replaced before the failure stay replaced.
func WriteAllAtomic(commits []Commit, perm os.FileMode) error {
	for _, commit := range commits {
		if err := WriteAtomic(commit.Path, commit.Data, perm); err != nil {
			return err
		}
	}
	return nil
}
