package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivlev/babaru/internal/supabase"
)

// durationFPS converts the database duration in seconds to frames.
const durationFPS = 30

// Remote reads the catalog tables of the hosted database.
type Remote struct {
	client *supabase.Client
}

var _ Repository = (*Remote)(nil)

// NewRemote wraps a configured client.
func NewRemote(client *supabase.Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) ListItems(ctx context.Context) ([]Item, error) {
	var rows []supabase.ComicRow
	q := supabase.Query{Order: []supabase.Order{{Column: "created_at"}}}
	if err := r.client.Select(ctx, supabase.TableComics, q, &rows); err != nil {
		return nil, fmt.Errorf("list comics: %w", err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	return items, nil
}

// ListGroupings joins comic_rows with comic_row_items. Items that point at
// missing comics are dropped.
func (r *Remote) ListGroupings(ctx context.Context) ([]Grouping, error) {
	var comics []supabase.ComicRow
	if err := r.client.Select(ctx, supabase.TableComics, supabase.Query{Columns: "id"}, &comics); err != nil {
		return nil, fmt.Errorf("list comic ids: %w", err)
	}
	known := make(map[string]bool, len(comics))
	for _, c := range comics {
		known[c.ID] = true
	}
	return r.groupings(ctx, known)
}

// GroupingsFor is ListGroupings against items already fetched.
func (r *Remote) GroupingsFor(ctx context.Context, items []Item) ([]Grouping, error) {
	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}
	return r.groupings(ctx, known)
}

func (r *Remote) groupings(ctx context.Context, known map[string]bool) ([]Grouping, error) {
	var rows []supabase.GroupingRow
	byOrder := supabase.Query{Order: []supabase.Order{{Column: "order", Ascending: true}}}
	if err := r.client.Select(ctx, supabase.TableComicRows, byOrder, &rows); err != nil {
		return nil, fmt.Errorf("list groupings: %w", err)
	}
	var links []supabase.GroupingItem
	if err := r.client.Select(ctx, supabase.TableComicRowItems, byOrder, &links); err != nil {
		return nil, fmt.Errorf("list grouping items: %w", err)
	}

	out := make([]Grouping, 0, len(rows))
	for _, row := range rows {
		g := Grouping{ID: row.ID, Title: row.Title, Emoji: row.Emoji, Subtitle: row.Subtitle, ItemIDs: []string{}}
		for _, l := range links {
			if l.RowID == row.ID && known[l.ComicID] {
				g.ItemIDs = append(g.ItemIDs, l.ComicID)
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *Remote) FindBySlug(ctx context.Context, slug string) (Item, error) {
	var row supabase.ComicRow
	q := supabase.Query{Eq: map[string]string{"slug": slug}}
	if err := r.client.SelectOne(ctx, supabase.TableComics, q, &row); err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return Item{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return Item{}, fmt.Errorf("find %s: %w", slug, err)
	}
	return fromRow(row), nil
}

func fromRow(row supabase.ComicRow) Item {
	status, err := ParseStatus(row.Status)
	if err != nil {
		status = ComingSoon
	}
	it := Item{
		ID:          row.ID,
		Slug:        row.Slug,
		Title:       row.Title,
		Description: row.Description,
		Genres:      row.Genres,
		Tags:        row.Tags,
		Rating:      row.Rating,
		Status:      status,
	}
	if it.Slug == "" {
		it.Slug = Slugify(row.Title)
	}
	if row.ThumbnailURL != nil {
		it.ThumbnailRef = *row.ThumbnailURL
	}
	if row.Duration != nil {
		it.DurationFrames = *row.Duration * durationFPS
	}
	if row.ReleaseDate != nil {
		it.ReleaseDate = *row.ReleaseDate
	}
	if row.ProductionNote != nil {
		it.ProductionNote = *row.ProductionNote
	}
	return it
}
