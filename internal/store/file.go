package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"contentsearch/internal/config"
)

// File keeps the configuration in a YAML file.
type File struct {
	path string
}

// OpenFile returns a store backed by path. The file need not exist yet.
func OpenFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func (f *File) Save(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

func (f *File) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: clear: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
