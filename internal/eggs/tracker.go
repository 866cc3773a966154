package eggs

import (
	"sync"
	"time"
)

// KonamiPartyDuration is how long party mode lasts after the code.
const KonamiPartyDuration = 10 * time.Second

// Visits is the part of the preference store the tracker needs.
type Visits interface {
	Visit(page string) bool
	VisitedPages() []string
	MarkFirstVisit() bool
}

// Tracker feeds visitor input to the detectors and unlocks achievements.
type Tracker struct {
	reg    *Registry
	visits Visits

	mu         sync.Mutex
	konami     KonamiDetector
	name       NameDetector
	dials      DialDetector
	partyUntil time.Time
}

// NewTracker binds detectors to a registry.
func NewTracker(reg *Registry, visits Visits) *Tracker {
	return &Tracker{reg: reg, visits: visits}
}

// Start runs the checks done once per visit: first visit and night owl.
func (t *Tracker) Start(now time.Time) []Achievement {
	var out []Achievement
	if t.visits != nil && t.visits.MarkFirstVisit() {
		out = t.unlock(out, FirstVisit)
	}
	if IsNightOwl(now) {
		out = t.unlock(out, NightOwl)
	}
	return out
}

// KeyDown handles a key code such as "ArrowUp" or "KeyB".
func (t *Tracker) KeyDown(code string, now time.Time) []Achievement {
	t.mu.Lock()
	hit := t.konami.Feed(code)
	if hit {
		t.partyUntil = now.Add(KonamiPartyDuration)
	}
	t.mu.Unlock()
	if hit {
		return t.unlock(nil, Konami)
	}
	return nil
}

// KeyPress handles typed characters.
func (t *Tracker) KeyPress(key string) []Achievement {
	t.mu.Lock()
	hit := t.name.Feed(key)
	t.mu.Unlock()
	if hit {
		return t.unlock(nil, NameCaller)
	}
	return nil
}

// VisitPath records a page view.
func (t *Tracker) VisitPath(path string) []Achievement {
	page, ok := PageForPath(path)
	if !ok || t.visits == nil {
		return nil
	}
	t.visits.Visit(page)
	if ExploredAll(t.visits.VisitedPages()) {
		return t.unlock(nil, Explorer)
	}
	return nil
}

// Dial records a TV dial click.
func (t *Tracker) Dial(name string) []Achievement {
	if t.dials.Press(name) {
		return t.unlock(nil, ButtonMasher)
	}
	return nil
}

// PartyMode reports whether the Konami effect is active at now.
func (t *Tracker) PartyMode(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return now.Before(t.partyUntil)
}

func (t *Tracker) unlock(out []Achievement, id string) []Achievement {
	if a, ok := t.reg.Unlock(id); ok {
		out = append(out, a)
	}
	return out
}
