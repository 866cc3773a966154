package timeline

import (
	"fmt"
	"math"
	"strings"
)

// Easing maps linear progress in [0, 1] onto eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 {
	return t
}

// EaseOutCubic decelerates towards the end of the window.
func EaseOutCubic(t float64) float64 {
	return 1 - pow(1-t, 3)
}

// EaseInOutCubic applies smooth easing at both ends.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// Bezier returns a cubic-bezier easing with control points (x1, y1) and
// (x2, y2), matching the CSS timing function of the same name. The curve is
// solved with a fixed number of bisection steps so results are reproducible.
func Bezier(x1, y1, x2, y2 float64) Easing {
	bx := func(s float64) float64 { return bezierAxis(s, x1, x2) }
	by := func(s float64) float64 { return bezierAxis(s, y1, y2) }
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		lo, hi := 0.0, 1.0
		s := t
		for i := 0; i < 32; i++ {
			s = (lo + hi) / 2
			if bx(s) < t {
				lo = s
			} else {
				hi = s
			}
		}
		return by(s)
	}
}

func bezierAxis(s, p1, p2 float64) float64 {
	inv := 1 - s
	return 3*inv*inv*s*p1 + 3*inv*s*s*p2 + s*s*s
}

// EasingByName resolves the easing names used in composition files:
// "linear", "ease-out-cubic", "ease-in-out-cubic" and "bezier(x1,y1,x2,y2)".
func EasingByName(name string) (Easing, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "linear":
		return Linear, nil
	case "ease-out-cubic":
		return EaseOutCubic, nil
	case "ease-in-out-cubic":
		return EaseInOutCubic, nil
	}
	if strings.HasPrefix(n, "bezier(") && strings.HasSuffix(n, ")") {
		var x1, y1, x2, y2 float64
		args := strings.ReplaceAll(strings.TrimSuffix(strings.TrimPrefix(n, "bezier("), ")"), " ", "")
		if _, err := fmt.Sscanf(args, "%g,%g,%g,%g", &x1, &y1, &x2, &y2); err != nil {
			return nil, fmt.Errorf("parse %q: %w", name, err)
		}
		if x1 < 0 || x1 > 1 || x2 < 0 || x2 > 1 {
			return nil, fmt.Errorf("bezier %q: x control points must be within [0, 1]", name)
		}
		return Bezier(x1, y1, x2, y2), nil
	}
	return nil, fmt.Errorf("unknown easing %q", name)
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}

// Wave is a deterministic sine oscillation around 1 used for hold pulses.
func Wave(frame int, speed, amplitude float64) float64 {
	return 1 + math.Sin(float64(frame)*speed)*amplitude
}
