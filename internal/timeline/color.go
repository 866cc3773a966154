package timeline

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b, a uint8
	a = 0xff
	switch len(h) {
	case 6:
		if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(h, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("parse color %q: expected #RRGGBB or #RRGGBBAA", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// MustHex is ParseHex for literals.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when not opaque.
func Hex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Mix blends a towards b by t in [0, 1].
func Mix(a, b color.NRGBA, t float64) color.NRGBA {
	t = Clamp01(t)
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(Lerp(float64(x), float64(y), t)))
	}
	return color.NRGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}

// WithAlpha scales the colour's alpha channel by f.
func WithAlpha(c color.NRGBA, f float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * Clamp01(f)))
	return c
}
