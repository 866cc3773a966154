package eggs

import (
	"slices"
	"strings"
	"sync"
	"time"
)

var konamiCode = []string{"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown", "ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight", "KeyB", "KeyA"}

// KonamiDetector watches key codes for the Konami sequence.
type KonamiDetector struct {
	seq []string
}

// Feed adds a key code and reports whether the sequence just completed.
func (d *KonamiDetector) Feed(code string) bool {
	d.seq = append(d.seq, code)
	if len(d.seq) > len(konamiCode) {
		d.seq = d.seq[len(d.seq)-len(konamiCode):]
	}
	return slices.Equal(d.seq, konamiCode)
}

// NameDetector watches typed characters for "babaru".
type NameDetector struct {
	typed string
}

// Feed adds typed text and reports whether the name was just completed.
func (d *NameDetector) Feed(key string) bool {
	d.typed += strings.ToLower(key)
	if len(d.typed) > 6 {
		d.typed = d.typed[len(d.typed)-6:]
	}
	return d.typed == "babaru"
}

// IsNightOwl reports a visit during the midnight hour.
func IsNightOwl(t time.Time) bool {
	return t.Hour() == 0
}

// Pages that count towards Explorer.
var Pages = []string{"home", "comics", "about", "community"}

// PageForPath maps a route to its page name.
func PageForPath(path string) (string, bool) {
	switch path {
	case "/":
		return "home", true
	case "/comics":
		return "comics", true
	case "/about":
		return "about", true
	case "/community":
		return "community", true
	}
	return "", false
}

// ExploredAll reports whether visited covers every page.
func ExploredAll(visited []string) bool {
	for _, p := range Pages {
		if !slices.Contains(visited, p) {
			return false
		}
	}
	return true
}

// Dials on the hero TV frame.
var Dials = []string{"channel", "volume"}

// DialDetector records which TV dials were clicked.
type DialDetector struct {
	mu      sync.Mutex
	pressed map[string]bool
}

// Press records a dial and reports whether every dial has now been used.
func (d *DialDetector) Press(dial string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(Dials, dial) {
		return false
	}
	if d.pressed == nil {
		d.pressed = make(map[string]bool)
	}
	d.pressed[dial] = true
	return len(d.pressed) == len(Dials)
}
