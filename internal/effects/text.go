package effects

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const maxCachedMasks = 512

// typesetter renders strings into alpha masks. Faces are not safe for
// concurrent use, so every call holds the lock.
type typesetter struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[int]font.Face
	masks map[maskKey]*image.Alpha
}

type maskKey struct {
	text string
	size int
}

func newTypesetter() (*typesetter, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &typesetter{
		font:  f,
		faces: make(map[int]font.Face),
		masks: make(map[maskKey]*image.Alpha),
	}, nil
}

// mask returns a tight alpha mask of s at px pixels. Sizes are rounded to
// whole pixels so masks can be reused across frames.
func (t *typesetter) mask(s string, px float64) (*image.Alpha, error) {
	size := int(math.Round(px))
	if size < 1 || s == "" {
		return nil, nil
	}
	key := maskKey{text: s, size: size}

	t.mu.Lock()
	defer t.mu.Unlock()

	if m, ok := t.masks[key]; ok {
		return m, nil
	}

	face, ok := t.faces[size]
	if !ok {
		var err error
		face, err = opentype.NewFace(t.font, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("new face %dpx: %w", size, err)
		}
		t.faces[size] = face
	}

	metrics := face.Metrics()
	advance := font.MeasureString(face, s)
	w := advance.Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return nil, nil
	}

	m := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  m,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(s)

	if len(t.masks) >= maxCachedMasks {
		clear(t.masks)
	}
	t.masks[key] = m
	return m, nil
}

// spaced inserts letter spacing, approximating CSS letter-spacing for the
// uppercase captions.
func spaced(s string) string {
	out := make([]rune, 0, len(s)*2)
	for i, r := range s {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, r)
	}
	return string(out)
}

// drawText centres s at (cx, cy).
func (r *Rasterizer) drawText(dst *image.RGBA, s string, px, cx, cy float64, c color.NRGBA, opacity float64) error {
	if opacity <= 0 {
		return nil
	}
	m, err := r.text.mask(s, px)
	if err != nil || m == nil {
		return err
	}
	b := m.Bounds()
	at := image.Pt(int(math.Round(cx))-b.Dx()/2, int(math.Round(cy))-b.Dy()/2)
	src := image.NewUniform(withOpacity(c, opacity))
	draw.DrawMask(dst, b.Add(at), src, image.Point{}, m, b.Min, draw.Over)
	return nil
}
