package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/comics.yaml
var bundled []byte

// Static serves the bundled dataset. Groupings are derived by rules.
type Static struct {
	items     []Item
	groupings []Grouping
}

var _ Repository = (*Static)(nil)

// NewStatic loads the bundled dataset.
func NewStatic() (*Static, error) {
	return ParseStatic(bundled)
}

// ParseStatic loads a dataset with the bundled shape.
func ParseStatic(data []byte) (*Static, error) {
	var doc struct {
		Items []Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(doc.Items))
	for i := range doc.Items {
		it := &doc.Items[i]
		if it.ID == "" {
			return nil, fmt.Errorf("catalog item %d has no id", i)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("duplicate catalog id %q", it.ID)
		}
		seen[it.ID] = true

		status, err := ParseStatus(string(it.Status))
		if err != nil {
			return nil, fmt.Errorf("catalog item %q: %w", it.ID, err)
		}
		it.Status = status
		if it.Slug == "" {
			it.Slug = Slugify(it.Title)
		}
	}

	return &Static{items: doc.Items, groupings: DeriveGroupings(doc.Items)}, nil
}

func (s *Static) ListItems(ctx context.Context) ([]Item, error) {
	return append([]Item(nil), s.items...), nil
}

func (s *Static) ListGroupings(ctx context.Context) ([]Grouping, error) {
	out := make([]Grouping, len(s.groupings))
	for i, g := range s.groupings {
		g.ItemIDs = append([]string(nil), g.ItemIDs...)
		out[i] = g
	}
	return out, nil
}

// FindBySlug matches the item id or its title slug.
func (s *Static) FindBySlug(ctx context.Context, slug string) (Item, error) {
	for _, it := range s.items {
		if it.ID == slug || it.Slug == slug {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

type rule struct {
	Grouping
	match func(Item) bool
}

var rules = []rule{
	{Grouping{ID: "on-air", Title: "On Air Now", Emoji: "📺", Subtitle: "Hot off the presses! (They're literally still warm!)"},
		func(it Item) bool { return it.Status == InProduction }},
	{Grouping{ID: "coming-soon", Title: "Coming Soon", Emoji: "🎬", Subtitle: "Sneak peeks! (Don't tell the artist I showed you!)"},
		func(it Item) bool { return it.Status == ComingSoon }},
	{Grouping{ID: "babaru-faves", Title: "Babaru's Faves", Emoji: "⚡", Subtitle: "My personal stash (I have EXCELLENT taste)"},
		func(it Item) bool { return it.Rating >= 4.7 }},
	{Grouping{ID: "origin-stories", Title: "Origin Stories", Emoji: "🎭", Subtitle: "Where it all began... (Spoiler: chaos)"},
		func(it Item) bool { return it.HasTag("origin") }},
	{Grouping{ID: "comedy-gold", Title: "Comedy Gold", Emoji: "😂", Subtitle: "Guaranteed to make you exhale through your nose"},
		func(it Item) bool { return it.HasGenre("Comedy") }},
	{Grouping{ID: "deep-lore", Title: "Deep Lore", Emoji: "🌙", Subtitle: "For the truly dedicated Citizens"},
		func(it Item) bool { return it.HasTag("lore") || it.HasTag("carnival") }},
}

// DeriveGroupings builds the six standard rows, keeping dataset order
// within each row.
func DeriveGroupings(items []Item) []Grouping {
	out := make([]Grouping, 0, len(rules))
	for _, r := range rules {
		g := r.Grouping
		g.ItemIDs = []string{}
		for _, it := range items {
			if r.match(it) {
				g.ItemIDs = append(g.ItemIDs, it.ID)
			}
		}
		out = append(out, g)
	}
	return out
}
