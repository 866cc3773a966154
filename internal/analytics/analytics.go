// Package analytics records usage events in the hosted database. Events
// are best effort: an unconfigured or failing backend drops them.
package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"time"

	"github.com/ivlev/babaru/internal/supabase"
)

type EventType string

const (
	PageView       EventType = "page_view"
	ComicView      EventType = "comic_view"
	ComicPlay      EventType = "comic_play"
	ComicComplete  EventType = "comic_complete"
	ChatMessage    EventType = "chat_message"
	EasterEggFound EventType = "easter_egg_found"
	MuteToggle     EventType = "mute_toggle"
	Share          EventType = "share"
)

const sendTimeout = 5 * time.Second

// Inserter is satisfied by *supabase.Client.
type Inserter interface {
	Insert(ctx context.Context, table string, row any) error
}

// Event is one usage event.
type Event struct {
	Type     EventType
	ComicID  string
	Path     string
	Metadata map[string]any
}

// Tracker sends events. The zero value drops everything.
type Tracker struct {
	ins    Inserter
	userID func() string
	logger *slog.Logger
	now    func() time.Time
}

// New returns a tracker. A nil ins turns Track into a debug log.
func New(ins Inserter, userID func() string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if userID == nil {
		userID = func() string { return "" }
	}
	return &Tracker{ins: ins, userID: userID, logger: logger, now: time.Now}
}

// Track sends e and reports whether the backend accepted it.
func (t *Tracker) Track(ctx context.Context, e Event) bool {
	if t == nil || t.ins == nil {
		if t != nil {
			t.logger.Debug("analytics (mock)", slog.String("event", string(e.Type)), slog.String("comic", e.ComicID))
		}
		return false
	}

	meta := make(map[string]any, len(e.Metadata)+2)
	maps.Copy(meta, e.Metadata)
	if e.Path != "" {
		meta["url"] = e.Path
	}
	meta["timestamp"] = t.now().UTC().Format(time.RFC3339Nano)

	raw, err := json.Marshal(meta)
	if err != nil {
		t.logger.Warn("analytics metadata", slog.Any("error", err))
		return false
	}

	row := supabase.EventInsert{EventType: string(e.Type), Metadata: raw}
	if e.ComicID != "" {
		row.ComicID = &e.ComicID
	}
	if id := t.userID(); id != "" {
		row.UserID = &id
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := t.ins.Insert(ctx, supabase.TableAnalyticsEvents, row); err != nil {
		t.logger.Warn("analytics error", slog.String("event", string(e.Type)), slog.Any("error", err))
		return false
	}
	return true
}

func (t *Tracker) PageView(ctx context.Context, page, path string) bool {
	return t.Track(ctx, Event{Type: PageView, Path: path, Metadata: map[string]any{"page": page}})
}

func (t *Tracker) ComicView(ctx context.Context, id, title string) bool {
	return t.Track(ctx, Event{Type: ComicView, ComicID: id, Metadata: map[string]any{"title": title}})
}

func (t *Tracker) ComicPlay(ctx context.Context, id, title string) bool {
	return t.Track(ctx, Event{Type: ComicPlay, ComicID: id, Metadata: map[string]any{"title": title}})
}

func (t *Tracker) EasterEgg(ctx context.Context, id, name string) bool {
	return t.Track(ctx, Event{Type: EasterEggFound, Metadata: map[string]any{"eggId": id, "eggName": name}})
}

func (t *Tracker) ChatMessage(ctx context.Context) bool {
	return t.Track(ctx, Event{Type: ChatMessage})
}

func (t *Tracker) MuteToggle(ctx context.Context, muted bool) bool {
	return t.Track(ctx, Event{Type: MuteToggle, Metadata: map[string]any{"muted": muted}})
}

func (t *Tracker) Share(ctx context.Context, id, link string) bool {
	return t.Track(ctx, Event{Type: Share, ComicID: id, Metadata: map[string]any{"link": link}})
}
