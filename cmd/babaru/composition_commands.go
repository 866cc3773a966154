package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/director"
)

func newCompositionCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "composition",
		Short:       "Composition file utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newCompositionWriteCommand())
	cmd.AddCommand(newCompositionValidateCommand())
	cmd.AddCommand(newCompositionShowCommand())
	return cmd
}

func newCompositionWriteCommand() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "write [path]",
		Short: "Write the built-in intro as an editable YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := director.GenerateCompositionPath("")
			if len(args) == 1 {
				target = args[0]
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists (use --overwrite to replace it)", target)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("create composition directory: %w", err)
			}
			if err := director.WriteComposition(director.Canonical(), target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Composition written: %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newCompositionValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Check a composition file and list every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := director.ReadComposition(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] %s is valid: %d frames @ %d fps, %dx%d\n",
				args[0], c.TotalFrames, c.FPS, c.Width, c.Height)
			return nil
		},
	}
}

func newCompositionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "Print the phase timings of a composition",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			c, err := loadComposition(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Phase", "Start", "End"},
				compositionRows(c),
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func compositionRows(c *director.Composition) [][]string {
	row := func(name string, start, end int) []string {
		return []string{name, strconv.Itoa(start), strconv.Itoa(end)}
	}
	t := c.Title
	rows := [][]string{
		row("fade in", c.FadeIn.Start, c.FadeIn.End),
		row("letters", t.Start, t.Land),
		row("hold pulse", t.Pulse.Start, t.Pulse.End),
		row("title exit", t.ExitScale.Start, t.ExitScale.End),
		row("tagline", c.Tagline.Start, c.Tagline.FadeOut.End),
		row("character reveal", c.Reveal.Start, c.TotalFrames),
	}
	if w := c.Episode.Opacity; len(w) > 0 {
		rows = append(rows, row("episode overlay", w[0].Start, w[len(w)-1].End))
	}
	return append(rows,
		row("zoom", c.Reveal.Zoom.Start, c.Reveal.Zoom.End),
		row("fade out", c.FadeOut.Start, c.FadeOut.End),
	)
}
