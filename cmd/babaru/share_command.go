package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/server"
)

func newShareCommand(ctx *commandContext) *cobra.Command {
	var output string
	var size int

	cmd := &cobra.Command{
		Use:   "share <slug>",
		Short: "Write a QR code linking to a comic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := ctx.catalog(cfg)
			if err != nil {
				return err
			}
			it, err := cat.FindBySlug(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("comic %q: %w", args[0], err)
			}

			link := server.ShareLink(cfg.Server.ShareBaseURL, it.Slug)
			png, err := effects.ShareCodePNG(link, size)
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(cfg.Render.OutputDir, it.Slug+"_qr.png")
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(output, png, 0644); err != nil {
				return err
			}

			store := ctx.prefs(cfg)
			defer store.Close()
			ctx.analytics(cfg, store).Share(cmd.Context(), it.ID, link)

			fmt.Fprintf(cmd.OutOrStdout(), "[+] %s -> %s\n", link, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG")
	cmd.Flags().IntVar(&size, "size", 512, "Side length in pixels")
	return cmd
}
