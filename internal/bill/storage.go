package bill

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage keeps proof files
type Storage interface {
	// Save writes a proof and returns the name it is stored under
	Save(name string, data []byte) (string, error)

	// Get reads a stored proof
	Get(name string) ([]byte, error)

	// Delete removes a stored proof
	Delete(name string) error
}

// LocalStorage stores proofs as files in a single directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the proof directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating proof directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// path keeps every name inside the base directory
func (l *LocalStorage) path(name string) string {
	return filepath.Join(l.basePath, filepath.Base(name))
}

// Save writes a proof file
func (l *LocalStorage) Save(name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(l.path(name), data, 0644); err != nil {
		return "", fmt.Errorf("writing proof: %w", err)
	}
	return name, nil
}

// Get reads a proof file
func (l *LocalStorage) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		return nil, fmt.Errorf("reading proof: %w", err)
	}
	return data, nil
}

// Delete removes a proof file
func (l *LocalStorage) Delete(name string) error {
	if err := os.Remove(l.path(name)); err != nil {
		return fmt.Errorf("deleting proof: %w", err)
	}
	return nil
}
