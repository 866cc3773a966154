package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirSource serves PNG and JPEG files from a directory by file name.
type DirSource struct {
	dir   string
	names []string
	cache cache
}

func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return &DirSource{dir: dir, names: names}, nil
}

func (s *DirSource) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *DirSource) Image(name string) (image.Image, error) {
	idx := sort.SearchStrings(s.names, name)
	if idx >= len(s.names) || s.names[idx] != name {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissing, name, s.dir)
	}
	return s.cache.get(name, func() (image.Image, error) {
		f, err := os.Open(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return img, nil
	})
}

func (s *DirSource) Close() error {
	return nil
}

// Empty is a source without any images; every lookup reports ErrMissing.
type Empty struct{}

func (Empty) Names() []string { return nil }

func (Empty) Image(name string) (image.Image, error) {
	return nil, fmt.Errorf("%w: %s", ErrMissing, name)
}

func (Empty) Close() error { return nil }
