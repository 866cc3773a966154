// Package catalog lists the comic catalog from the hosted database and falls
// back to a bundled dataset when it is unavailable.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Status is the production state of an item.
type Status string

const (
	InProduction Status = "IN_PRODUCTION"
	ComingSoon   Status = "COMING_SOON"
	Released     Status = "RELEASED"
)

// ParseStatus accepts the dataset spellings and the database enum.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN_PRODUCTION", "PRODUCTION":
		return InProduction, nil
	case "COMING_SOON", "PLANNED":
		return ComingSoon, nil
	case "RELEASED":
		return Released, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Series places an item within a season.
type Series struct {
	Season        int `yaml:"season" json:"season"`
	Episode       int `yaml:"episode" json:"episode"`
	TotalEpisodes int `yaml:"total_episodes" json:"totalEpisodes"`
}

// Item is one catalog entry.
type Item struct {
	ID                 string   `yaml:"id" json:"id"`
	Slug               string   `yaml:"slug" json:"slug"`
	Title              string   `yaml:"title" json:"title"`
	Description        string   `yaml:"description" json:"description"`
	Author             string   `yaml:"author" json:"author,omitempty"`
	ThumbnailRef       string   `yaml:"thumbnail" json:"thumbnailRef"`
	PreviewComposition string   `yaml:"preview_composition" json:"previewCompositionId,omitempty"`
	FullComposition    string   `yaml:"full_composition" json:"fullCompositionId,omitempty"`
	DurationFrames     int      `yaml:"duration_frames" json:"durationInFrames"`
	Genres             []string `yaml:"genres" json:"genres"`
	Tags               []string `yaml:"tags" json:"tags"`
	Rating             float64  `yaml:"rating" json:"rating"`
	ReleaseDate        string   `yaml:"release_date" json:"releaseDate,omitempty"`
	Status             Status   `yaml:"status" json:"status"`
	ProductionNote     string   `yaml:"production_note" json:"productionNote,omitempty"`
	Series             *Series  `yaml:"series" json:"series,omitempty"`
	Related            []string `yaml:"related" json:"relatedComics,omitempty"`
}

// HasTag reports whether the item carries tag.
func (it Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasGenre reports whether the item lists genre.
func (it Item) HasGenre(genre string) bool {
	for _, g := range it.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Grouping is a titled row of items in display order.
type Grouping struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Emoji    string   `json:"emoji"`
	Subtitle string   `json:"subtitle"`
	ItemIDs  []string `json:"itemIds"`
}

// ErrNotFound is returned when no item matches a slug.
var ErrNotFound = errors.New("item not found")

// Repository is a source of catalog data.
type Repository interface {
	ListItems(ctx context.Context) ([]Item, error)
	ListGroupings(ctx context.Context) ([]Grouping, error)
	FindBySlug(ctx context.Context, slug string) (Item, error)
}
