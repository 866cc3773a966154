package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/catalog"
	"github.com/ivlev/babaru/internal/mascot"
)

type indexRand struct{ n int }

func (r *indexRand) IntN(n int) int {
	r.n++
	return r.n % n
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var groupings, asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the comic catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := ctx.catalog(cfg)
			if err != nil {
				return err
			}
			snap := cat.Load(cmd.Context())
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			if snap.Fallback {
				fmt.Fprintln(out, "[!] Showing the bundled catalog")
			}
			if groupings {
				fmt.Fprintln(out, renderTable([]string{"Row", "Title", "Items"}, groupingRows(snap), nil))
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Status", "Rating", "Genres", "Note"},
				itemRows(snap.Items, &indexRand{}),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&groupings, "groupings", false, "Show the browse rows instead of items")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func itemRows(items []catalog.Item, r mascot.Rand) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		note := it.ProductionNote
		if note == "" && it.Status == catalog.InProduction {
			note = mascot.ProductionComment(r)
		}
		rows = append(rows, []string{
			it.ID,
			it.Title,
			string(it.Status),
			strconv.FormatFloat(it.Rating, 'f', 1, 64),
			strings.Join(it.Genres, ", "),
			note,
		})
	}
	return rows
}

func groupingRows(snap catalog.Snapshot) [][]string {
	titles := make(map[string]string, len(snap.Items))
	for _, it := range snap.Items {
		titles[it.ID] = it.Title
	}
	rows := make([][]string, 0, len(snap.Groupings))
	for _, g := range snap.Groupings {
		names := make([]string, 0, len(g.ItemIDs))
		for _, id := range g.ItemIDs {
			if t, ok := titles[id]; ok {
				names = append(names, t)
			}
		}
		rows = append(rows, []string{g.Emoji + " " + g.ID, g.Title, strings.Join(names, ", ")})
	}
	return rows
}
