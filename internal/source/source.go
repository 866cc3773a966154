package source

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// ErrMissing is returned when a sprite name has no backing image.
var ErrMissing = errors.New("sprite not found")

// Source resolves sprite references ("7.png") to decoded images. Images are
// cached after the first load and must be treated as read-only.
type Source interface {
	Names() []string
	Image(name string) (image.Image, error)
	Close() error
}

// Open picks a source for path: a PDF character sheet or a directory of
// images.
func Open(path string, dpi int) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFSource(path, dpi)
	}
	return NewDirSource(path)
}

// cache memoizes decoded images per name. Failed loads are not cached.
type cache struct {
	mu     sync.Mutex
	images map[string]image.Image
}

func (c *cache) get(name string, load func() (image.Image, error)) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[name]; ok {
		return img, nil
	}
	img, err := load()
	if err != nil {
		return nil, err
	}
	if c.images == nil {
		c.images = make(map[string]image.Image)
	}
	c.images[name] = img
	return img, nil
}

// PDFSource serves the pages of a character sheet. Page i is addressed as
// "<i+1>.png" so a sheet can stand in for a sprite directory.
type PDFSource struct {
	doc   *fitz.Document
	path  string
	dpi   int
	pages int
	cache cache
	mu    sync.Mutex
}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi, pages: doc.NumPage()}, nil
}

func (p *PDFSource) Names() []string {
	names := make([]string, p.pages)
	for i := range names {
		names[i] = fmt.Sprintf("%d.png", i+1)
	}
	return names
}

func (p *PDFSource) Image(name string) (image.Image, error) {
	var page int
	if _, err := fmt.Sscanf(strings.TrimSuffix(name, filepath.Ext(name)), "%d", &page); err != nil || page < 1 || page > p.pages {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissing, name, p.path)
	}
	return p.cache.get(name, func() (image.Image, error) {
		// go-fitz documents are not safe for concurrent rendering
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.doc.ImageDPI(page-1, float64(p.dpi))
	})
}

func (p *PDFSource) Close() error {
	return p.doc.Close()
}
