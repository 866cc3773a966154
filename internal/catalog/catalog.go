package catalog

import (
	"context"
	"errors"
	"log/slog"
)

// Catalog reads from a primary repository and answers from the bundled
// dataset whenever the primary is missing or fails. It never returns an
// error for list calls.
type Catalog struct {
	primary  Repository
	fallback *Static
	logger   *slog.Logger
}

// Snapshot is everything a catalog page needs.
type Snapshot struct {
	Items     []Item     `json:"items"`
	Groupings []Grouping `json:"groupings"`
	Fallback  bool       `json:"fallback"`
}

// New builds a catalog. primary may be nil when the database is not
// configured.
func New(primary Repository, fallback *Static, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{primary: primary, fallback: fallback, logger: logger}
}

// Configured reports whether a primary source is set.
func (c *Catalog) Configured() bool {
	return c.primary != nil
}

// FindBySlug returns ErrNotFound when neither source has the item.
func (c *Catalog) FindBySlug(ctx context.Context, slug string) (Item, error) {
	if c.primary != nil {
		it, err := c.primary.FindBySlug(ctx, slug)
		if err == nil {
			return it, nil
		}
		if errors.Is(err, ErrNotFound) {
			return Item{}, err
		}
		c.unavailable("find", err, 1)
	}
	return c.fallback.FindBySlug(ctx, slug)
}

// groupingJoiner lists groupings against items the caller already holds.
type groupingJoiner interface {
	GroupingsFor(ctx context.Context, items []Item) ([]Grouping, error)
}

// Load fetches items and groupings together. A failure of either call
// serves both from the bundled dataset so ids stay consistent.
func (c *Catalog) Load(ctx context.Context) Snapshot {
	if c.primary != nil {
		items, err := c.primary.ListItems(ctx)
		if err == nil {
			var groupings []Grouping
			if j, ok := c.primary.(groupingJoiner); ok {
				groupings, err = j.GroupingsFor(ctx, items)
			} else {
				groupings, err = c.primary.ListGroupings(ctx)
			}
			if err == nil {
				return Snapshot{Items: items, Groupings: groupings}
			}
		}
		c.unavailable("load", err, len(c.fallback.items))
	} else {
		c.notConfigured(len(c.fallback.items))
	}
	items, _ := c.fallback.ListItems(ctx)
	groupings, _ := c.fallback.ListGroupings(ctx)
	return Snapshot{Items: items, Groupings: groupings, Fallback: true}
}

func (c *Catalog) ListItems(ctx context.Context) ([]Item, error) {
	if c.primary == nil {
		c.notConfigured(len(c.fallback.items))
	} else {
		items, err := c.primary.ListItems(ctx)
		if err == nil {
			return items, nil
		}
		c.unavailable("list items", err, len(c.fallback.items))
	}
	return c.fallback.ListItems(ctx)
}

func (c *Catalog) ListGroupings(ctx context.Context) ([]Grouping, error) {
	if c.primary == nil {
		c.notConfigured(len(c.fallback.items))
	} else {
		groupings, err := c.primary.ListGroupings(ctx)
		if err == nil {
			return groupings, nil
		}
		c.unavailable("list groupings", err, len(c.fallback.items))
	}
	return c.fallback.ListGroupings(ctx)
}

func (c *Catalog) notConfigured(items int) {
	c.logger.Warn("primary source unavailable", slog.String("reason", "not configured"), slog.Int("items", items))
}

func (c *Catalog) unavailable(op string, err error, items int) {
	c.logger.Warn("primary source unavailable",
		slog.String("op", op),
		slog.Any("error", err),
		slog.Int("items", items),
	)
}
