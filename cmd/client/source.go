package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// dirSource cycles through still images in a directory, standing in for
// camera hardware. Acquire fails with a no-device error when the
// directory holds no decodable images.
type dirSource struct {
	dir string

	mu    sync.Mutex
	files []string
	next  int
}

func newDirSource(dir string) *dirSource {
	return &dirSource{dir: dir}
}

func (s *dirSource) Acquire(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("NotFoundError: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(s.dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("NotFoundError: no frames in %s", s.dir)
	}
	sort.Strings(files)

	s.mu.Lock()
	s.files = files
	s.next = 0
	s.mu.Unlock()
	return nil
}

func (s *dirSource) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	if len(s.files) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("source not acquired")
	}
	path := s.files[s.next]
	s.next = (s.next + 1) % len(s.files)
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

func (s *dirSource) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
	return nil
}
