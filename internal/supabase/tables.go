package supabase

import "encoding/json"

// Table names.
const (
	TableComics          = "comics"
	TableComicRows       = "comic_rows"
	TableComicRowItems   = "comic_row_items"
	TableAnalyticsEvents = "analytics_events"
)

// ComicRow is a row of the comics table.
type ComicRow struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Tagline        *string  `json:"tagline"`
	Status         string   `json:"status"`
	ThumbnailURL   *string  `json:"thumbnail_url"`
	VideoURL       *string  `json:"video_url"`
	Duration       *int     `json:"duration"`
	Genres         []string `json:"genres"`
	Tags           []string `json:"tags"`
	Rating         float64  `json:"rating"`
	ReleaseDate    *string  `json:"release_date"`
	ProductionNote *string  `json:"production_note"`
	CreatedAt      string   `json:"created_at"`
}

// GroupingRow is a row of the comic_rows table.
type GroupingRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Emoji    string `json:"emoji"`
	Subtitle string `json:"subtitle"`
	Order    int    `json:"order"`
}

// GroupingItem links a grouping to a comic.
type GroupingItem struct {
	ID      string `json:"id"`
	RowID   string `json:"row_id"`
	ComicID string `json:"comic_id"`
	Order   int    `json:"order"`
}

// EventInsert is the insert shape of analytics_events.
type EventInsert struct {
	EventType string          `json:"event_type"`
	ComicID   *string         `json:"comic_id,omitempty"`
	UserID    *string         `json:"user_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}
