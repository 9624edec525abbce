// Package storage wraps the output filesystem used by downloads. All access
// goes through an afero.Fs so tests can observe or fake it.
package storage

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirPerm is the permission used for created directories.
const DirPerm = 0o755

// Store is the filesystem the orchestrators read and write.
type Store struct {
	fs afero.Fs
}

// New returns a Store over fs.
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOS returns a Store over the real filesystem.
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// Exists reports whether a file named name is present in dir.
func (s *Store) Exists(dir, name string) bool {
	_, err := s.fs.Stat(filepath.Join(dir, name))
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func (s *Store) IsDir(path string) bool {
	ok, err := afero.IsDir(s.fs, path)
	return err == nil && ok
}

// EnsureDir creates the directory path if it does not exist.
func (s *Store) EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	if s.IsDir(path) {
		return nil
	}
	return s.fs.MkdirAll(path, DirPerm)
}

// Create truncates or creates the file at path.
func (s *Store) Create(path string) (afero.File, error) {
	return s.fs.Create(path)
}

// Rename moves oldpath to newpath, replacing newpath.
func (s *Store) Rename(oldpath, newpath string) error {
	return s.fs.Rename(oldpath, newpath)
}

// Remove deletes the file if present.
func (s *Store) Remove(path string) error {
	err := s.fs.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
