package datastore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot stores each key as <dir>/<key>.json
type FileSlot struct {
	dir string
}

func NewFileSlot(dir string) (FileSlot, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return FileSlot{}, fmt.Errorf("slot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FileSlot{}, fmt.Errorf("create slot directory: %w", err)
	}
	return FileSlot{dir: filepath.Clean(dir)}, nil
}

func (fsl FileSlot) path(key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(fsl.dir, key+".json"), nil
}

func (fsl FileSlot) Get(key string) ([]byte, error) {
	path, err := fsl.path(key)
	if err != nil {
		return nil, err
	}
	value, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NoRowsError{true, err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return value, nil
}

// Set writes through a temporary file and renames it into place so a crash
// never leaves a half-written slot
func (fsl FileSlot) Set(key string, value []byte) error {
	path, err := fsl.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fsl.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (fsl FileSlot) Remove(key string) error {
	path, err := fsl.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove slot %q: %w", key, err)
	}
	return nil
}
