package storage

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// ErrFileNotFound indicates a missing local image
var ErrFileNotFound = errors.New("file not found")

// LocalStorage reads and writes images on the local file system
type LocalStorage interface {
	ReadImage(path string) (image.Image, error)
	WriteFile(path string, data []byte) error
}

type localStorage struct{}

// NewLocalStorage creates a file system backed storage
func NewLocalStorage() LocalStorage {
	return &localStorage{}
}

func (s *localStorage) ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	return img, err
}

// WriteFile writes data and reports short writes or sync failures, so a
// target such as /dev/full surfaces an error
func (s *localStorage) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
