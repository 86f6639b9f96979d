// Package storage persists trained model bundles as opaque blobs.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrBundleNotFound is returned when a named bundle does not exist.
var ErrBundleNotFound = errors.New("storage: bundle not found")

// Store reads and writes named blobs.
type Store interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, error)
	Exists(name string) bool
}

type fsStore struct {
	dir string
}

// NewFSStore returns a Store backed by a directory, creating it if needed.
func NewFSStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return &fsStore{dir: dir}, nil
}

// Save writes the blob through a temp file and renames it into place so a
// crashed write never leaves a truncated bundle.
func (s *fsStore) Save(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	return nil
}

func (s *fsStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, name)
		}
		return nil, fmt.Errorf("storage: load %s: %w", name, err)
	}
	return data, nil
}

func (s *fsStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}
