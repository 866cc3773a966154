package engine

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/renderer"
	"github.com/ivlev/babaru/internal/system"
)

// ExportFrame writes one rendered frame as PNG.
func ExportFrame(a *renderer.Animator, r *effects.Rasterizer, frame int, path string) error {
	img, err := r.Frame(a.Render(frame))
	if err != nil {
		return fmt.Errorf("render frame %d: %w", frame, err)
	}
	defer system.PutImage(img)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
