package main

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/chat"
	"github.com/ivlev/babaru/internal/eggs"
	"github.com/ivlev/babaru/internal/logging"
	"github.com/ivlev/babaru/internal/mascot"
	"github.com/ivlev/babaru/internal/server"
)

const defaultFrameWidth = 960

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var frameWidth int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog, chat relay, achievements and intro frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()

			cat, err := ctx.catalog(cfg)
			if err != nil {
				return err
			}
			client, err := chat.New(cfg.Chat.APIURL, time.Duration(cfg.Chat.TimeoutSeconds)*time.Second)
			if err != nil {
				return err
			}
			store := ctx.prefs(cfg)
			defer store.Close()

			reg := eggs.NewRegistry(store, logging.Component(logger, "eggs"))
			reg.Load()
			tracker := eggs.NewTracker(reg, store)
			now := time.Now()
			for _, a := range tracker.Start(now) {
				logger.Info("welcome achievement", slog.String("id", a.ID))
			}

			a, err := ctx.animator(cfg.Render.Composition)
			if err != nil {
				return err
			}
			r := cfg.Render
			if frameWidth > 0 {
				r.Width, r.Height = frameWidth, 0
			} else if r.Width == 0 && r.Height == 0 {
				r.Width = defaultFrameWidth
			}
			width, height := outputSize(a, r.Width, r.Height)
			raster, release, err := ctx.rasterizer(cmd.Context(), r, a, width, height)
			if err != nil {
				return err
			}
			defer release()

			srv := server.New(server.Options{
				Catalog:      cat,
				Chat:         client,
				Registry:     reg,
				Tracker:      tracker,
				Mascot:       mascot.New(now, rand.New(rand.NewPCG(uint64(now.UnixNano()), 0)), reg),
				Analytics:    ctx.analytics(cfg, store),
				Animator:     a,
				Raster:       raster,
				ShareBaseURL: cfg.Server.ShareBaseURL,
				Logger:       logging.Component(logger, "server"),
			})

			if addr == "" {
				addr = cfg.Server.Addr()
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().IntVar(&frameWidth, "frame-width", 0, "Width of PNG frames served by /api/intro (default 960)")
	return cmd
}
