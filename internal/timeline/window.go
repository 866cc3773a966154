package timeline

import (
	"errors"
	"fmt"
	"sort"
)

// Window is a phase window: over [Start, End) the value moves from From to
// To. Before Start it holds From, from End onwards it holds To.
type Window struct {
	Start  int
	End    int
	From   float64
	To     float64
	Easing Easing
}

// Value returns the window's output at frame.
func (w Window) Value(frame int) float64 {
	if frame < w.Start {
		return w.From
	}
	if frame >= w.End {
		return w.To
	}
	ease := w.Easing
	if ease == nil {
		ease = Linear
	}
	t := float64(frame-w.Start) / float64(w.End-w.Start)
	return Lerp(w.From, w.To, ease(t))
}

// Active reports whether frame falls inside [Start, End).
func (w Window) Active(frame int) bool {
	return frame >= w.Start && frame < w.End
}

// Validate rejects inverted or negative windows.
func (w Window) Validate(name string) error {
	if w.Start < 0 {
		return invalidf(name, "start frame %d is negative", w.Start)
	}
	if w.Start > w.End {
		return invalidf(name, "start frame %d is after end frame %d", w.Start, w.End)
	}
	return nil
}

// Track composes several windows driving the same property. Once a window's
// start frame is reached it overrides every window that started earlier.
type Track struct {
	Default float64
	windows []Window
}

// NewTrack validates and orders the windows by start frame.
func NewTrack(name string, def float64, windows ...Window) (Track, error) {
	var errs []error
	for i, w := range windows {
		if err := w.Validate(fmt.Sprintf("%s[%d]", name, i)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Track{}, errors.Join(errs...)
	}
	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return Track{Default: def, windows: sorted}, nil
}

// MustTrack is NewTrack for statically known windows.
func MustTrack(name string, def float64, windows ...Window) Track {
	t, err := NewTrack(name, def, windows...)
	if err != nil {
		panic(err)
	}
	return t
}

// Value evaluates the last window whose start frame has been reached. Before
// the first window the first window's starting value applies.
func (t Track) Value(frame int) float64 {
	if len(t.windows) == 0 {
		return t.Default
	}
	idx := -1
	for i, w := range t.windows {
		if frame >= w.Start {
			idx = i
		}
	}
	if idx < 0 {
		return t.windows[0].From
	}
	return t.windows[idx].Value(frame)
}

// Windows returns the windows in evaluation order.
func (t Track) Windows() []Window {
	out := make([]Window, len(t.windows))
	copy(out, t.windows)
	return out
}
