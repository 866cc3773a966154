package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/eggs"
)

func newEggsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eggs",
		Short: "Show discovered easter eggs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := ctx.prefs(cfg)
			defer store.Close()

			reg := eggs.NewRegistry(store, nil)
			reg.Load()
			fmt.Fprintln(cmd.OutOrStdout(), achievementTable(reg))
			return nil
		},
	}
	return cmd
}

func achievementTable(reg *eggs.Registry) string {
	var rows [][]string
	for _, a := range reg.List() {
		name, desc := "???", "Keep exploring"
		if a.Found {
			name, desc = a.Name, a.Description
		}
		rows = append(rows, []string{yesNo(a.Found), name, desc})
	}
	found, total := reg.Progress()
	return renderTable([]string{"Found", "Achievement", "How"}, rows, nil) +
		fmt.Sprintf("\n%d/%d found", found, total)
}
