package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File stores each key as a JSON file in a directory.
type File struct {
	dir string
}

// resolveDir defaults an empty dir to ~/.cache/prayer-times/.
func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if x := os.Getenv("XDG_CACHE_HOME"); x != "" {
		return filepath.Join(x, "prayer-times"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "prayer-times"), nil
}

// NewFile creates a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, name+".json")
}

// GetItem reads the file for key. A missing file is ErrNotFound.
func (f *File) GetItem(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

// SetItem writes value to the file for key.
func (f *File) SetItem(_ context.Context, key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the file for key. A missing file is not an error.
func (f *File) RemoveItem(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }
