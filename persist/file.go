package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/phanxgames/tether"
)

// File stores the list as a single YAML or JSON file. Saves write a
// temporary file and rename it over the old one.
type File struct {
	mu     sync.Mutex
	path   string
	format string
}

// NewFile creates a file backend. The encoding follows the extension.
func NewFile(path string) (*File, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, format: f}, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Load implements Backend.
func (f *File) Load(ctx context.Context) ([]tether.StoredTip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	tips, err := Unmarshal(data, f.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return tips, nil
}

// Save implements Backend.
func (f *File) Save(ctx context.Context, tips []tether.StoredTip) error {
	data, err := Marshal(tips, f.format)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tips-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

// Close implements Backend.
func (f *File) Close() error { return nil }
