// Package eggs tracks the site's hidden achievements.
package eggs

import (
	"log/slog"
	"sync"
)

// Achievement ids.
const (
	Konami       = "konami"
	Click10      = "click10"
	Idle         = "idle"
	Explorer     = "explorer"
	EagleEye     = "eagle-eye"
	NameCaller   = "name-caller"
	ButtonMasher = "button-masher"
	NightOwl     = "night-owl"
	DevTools     = "dev-tools"
	FirstVisit   = "first-visit"
)

// Achievement is one hidden goal.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Found       bool   `json:"found"`
}

var defaults = []Achievement{
	{ID: Konami, Name: "Konami Master", Description: "Enter the legendary code"},
	{ID: Click10, Name: "Persistent Clicker", Description: "Click Babaru 10 times rapidly"},
	{ID: Idle, Name: "Patient Observer", Description: "Let Babaru fall asleep"},
	{ID: Explorer, Name: "Explorer", Description: "Visit all pages"},
	{ID: EagleEye, Name: "Eagle Eye", Description: "Find the hidden pixel"},
	{ID: NameCaller, Name: "Name Caller", Description: "Type BABARU anywhere"},
	{ID: ButtonMasher, Name: "Button Masher", Description: "Click all dial controls"},
	{ID: NightOwl, Name: "Night Owl", Description: "Visit at midnight"},
	{ID: DevTools, Name: "Developer", Description: "Open the console"},
	{ID: FirstVisit, Name: "Welcome!", Description: "First time visitor"},
}

// Store persists unlocked ids.
type Store interface {
	UnlockedAchievements() []string
	SaveUnlocked(id string) bool
}

// Registry is the process-wide achievement list. Create one, Load it and
// pass it to whatever can unlock achievements.
type Registry struct {
	mu       sync.Mutex
	list     []Achievement
	store    Store
	logger   *slog.Logger
	handlers []func(Achievement)
}

// NewRegistry returns a registry with nothing found. store may be nil.
func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		list:   append([]Achievement(nil), defaults...),
		store:  store,
		logger: logger,
	}
}

// Load marks the ids from the store as found. Unknown ids are ignored.
func (r *Registry) Load() {
	if r.store == nil {
		return
	}
	saved := r.store.UnlockedAchievements()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range saved {
		if i := r.index(id); i >= 0 {
			r.list[i].Found = true
		}
	}
}

// OnUnlock registers fn to run after each new unlock.
func (r *Registry) OnUnlock(fn func(Achievement)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, fn)
}

// Unlock marks id found. It reports false for unknown or already found ids.
func (r *Registry) Unlock(id string) (Achievement, bool) {
	r.mu.Lock()
	i := r.index(id)
	if i < 0 || r.list[i].Found {
		r.mu.Unlock()
		return Achievement{}, false
	}
	r.list[i].Found = true
	a := r.list[i]
	handlers := append(([]func(Achievement))(nil), r.handlers...)
	r.mu.Unlock()

	if r.store != nil {
		r.store.SaveUnlocked(id)
	}
	r.logger.Info("achievement unlocked", slog.String("id", a.ID), slog.String("name", a.Name))
	for _, fn := range handlers {
		fn(a)
	}
	return a, true
}

// Found reports whether id is unlocked.
func (r *Registry) Found(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	return i >= 0 && r.list[i].Found
}

// List returns every achievement in display order.
func (r *Registry) List() []Achievement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Achievement(nil), r.list...)
}

// Progress returns found and total counts.
func (r *Registry) Progress() (found, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.list {
		if a.Found {
			found++
		}
	}
	return found, len(r.list)
}

func (r *Registry) index(id string) int {
	for i, a := range r.list {
		if a.ID == id {
			return i
		}
	}
	return -1
}
