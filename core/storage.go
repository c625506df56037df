package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Storage reads and writes whole files.
type Storage interface {
	Read(path string) ([]byte, error)
	Write(path string, content []byte) error
}

// FileStorage is the Storage backed by the local filesystem.
type FileStorage struct{}

func (FileStorage) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return content, nil
}

// Write overwrites path, keeping the permissions of an existing file.
func (FileStorage) Write(path string, content []byte) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := os.WriteFile(path, content, perm); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Open reads path through storage and loads it into a buffer.
func Open(storage Storage, path string) (*Buffer, error) {
	raw, err := storage.Read(path)
	if err != nil {
		return nil, err
	}

	buffer, err := Load(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buffer, nil
}
