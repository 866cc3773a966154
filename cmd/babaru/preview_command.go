package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/preview"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var composition, assets string
	var loop bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Play the composition in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			r := cfg.Render
			applyRenderFlags(&r, renderFlags{composition: composition, assets: assets})

			a, err := ctx.animator(r.Composition)
			if err != nil {
				return err
			}
			opts, err := rasterOptions(r)
			if err != nil {
				return err
			}
			sprites := ctx.sprites(r, a.Composition())
			defer sprites.Close()

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			player := preview.New(screen, a, func(w, h int) (*effects.Rasterizer, error) {
				return effects.NewRasterizer(w, h, sprites, opts...)
			})
			player.Loop = loop
			return player.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&composition, "composition", "", "Composition YAML")
	cmd.Flags().StringVar(&assets, "assets", "", "Sprite directory or PDF character sheet")
	cmd.Flags().BoolVar(&loop, "loop", false, "Restart when the end is reached")
	return cmd
}
