package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/analytics"
	"github.com/ivlev/babaru/internal/analyzer"
	"github.com/ivlev/babaru/internal/catalog"
	"github.com/ivlev/babaru/internal/config"
	"github.com/ivlev/babaru/internal/director"
	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/logging"
	"github.com/ivlev/babaru/internal/prefs"
	"github.com/ivlev/babaru/internal/renderer"
	"github.com/ivlev/babaru/internal/source"
	"github.com/ivlev/babaru/internal/supabase"
	"github.com/ivlev/babaru/internal/video"
)

type commandContext struct {
	configFlag *string
	logLevel   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevel *string) *commandContext {
	return &commandContext{configFlag: configFlag, logLevel: logLevel}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevel != nil && *c.logLevel != "" {
			cfg.Logging.Level = *c.logLevel
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		opts := logging.Options{}
		if cfg, err := c.ensureConfig(); err == nil {
			opts.Level = cfg.Logging.Level
			opts.Format = cfg.Logging.Format
		}
		logger, err := logging.New(opts)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: opts.Level})
		}
		c.logger = logger
	})
	return c.logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// loadComposition reads path. Empty means the built-in intro and "latest"
// picks the newest file in the compositions directory.
func loadComposition(path string) (*director.Composition, error) {
	switch path {
	case "":
		return director.Canonical(), nil
	case "latest":
		latest, err := director.FindLatestComposition("")
		if err != nil {
			return nil, err
		}
		path = latest
	}
	return director.ReadComposition(path)
}

func (c *commandContext) animator(path string) (*renderer.Animator, error) {
	comp, err := loadComposition(path)
	if err != nil {
		return nil, err
	}
	return renderer.New(comp)
}

// outputSize keeps the composition aspect when only one side is set.
func outputSize(a *renderer.Animator, width, height int) (int, int) {
	cw, ch := a.Size()
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0:
		return width, evenRound(float64(width) * float64(ch) / float64(cw))
	case height > 0:
		return evenRound(float64(height) * float64(cw) / float64(ch)), height
	}
	return cw, ch
}

func evenRound(v float64) int {
	n := int(v + 0.5)
	return n + n%2
}

// sprites opens the sprite sheet. A missing sheet is drawn as
// placeholders.
func (c *commandContext) sprites(r config.Render, comp director.Composition) source.Source {
	assets := r.AssetDir
	if comp.Reveal.AssetDir != "" && assets == config.Default().Render.AssetDir {
		assets = comp.Reveal.AssetDir
	}
	src, err := source.Open(assets, r.DPI)
	if err != nil {
		c.log().Warn("sprites unavailable, drawing placeholders", slog.String("path", assets), slog.Any("error", err))
		return source.Empty{}
	}
	return src
}

// rasterizer opens the sprites and the optional reveal clip. The returned
// func releases the sprite sheet.
func (c *commandContext) rasterizer(ctx context.Context, r config.Render, a *renderer.Animator, width, height int) (*effects.Rasterizer, func(), error) {
	comp := a.Composition()
	sprites := c.sprites(r, comp)

	opts, err := rasterOptions(r)
	if err != nil {
		sprites.Close()
		return nil, nil, err
	}
	clipPath := r.ClipPath
	if clipPath == "" {
		clipPath = comp.Reveal.Clip
	}
	if clipPath != "" {
		size := int(comp.Reveal.Size * float64(width) / float64(comp.Width))
		clip, err := video.DecodeClip(ctx, clipPath, max(size, 2), a.FPS(), a.TotalFrames()-comp.Reveal.Start)
		if err != nil {
			c.log().Warn("reveal clip unavailable, using sprites", slog.String("path", clipPath), slog.Any("error", err))
		} else {
			fmt.Printf("[*] Reveal clip: %s (%d frames)\n", clipPath, clip.Len())
			opts = append(opts, effects.WithClip(clip))
		}
	}

	raster, err := effects.NewRasterizer(width, height, sprites, opts...)
	if err != nil {
		sprites.Close()
		return nil, nil, err
	}
	return raster, func() { sprites.Close() }, nil
}

// rasterOptions applies the detector and scaler settings.
func rasterOptions(r config.Render) ([]effects.Option, error) {
	detector, err := analyzer.NewDetector(r.Detector)
	if err != nil {
		return nil, err
	}
	return []effects.Option{
		effects.WithDetector(detector),
		effects.WithInterpolator(effects.Scaler(r.Scaler)),
	}, nil
}

// supabaseClient returns nil when the database is not configured.
func supabaseClient(cfg *config.Config) (*supabase.Client, error) {
	if !cfg.Content.Configured() {
		return nil, nil
	}
	return supabase.New(cfg.Content.SupabaseURL, cfg.Content.SupabaseAnonKey,
		supabase.WithTimeout(time.Duration(cfg.Content.TimeoutSeconds)*time.Second))
}

func (c *commandContext) catalog(cfg *config.Config) (*catalog.Catalog, error) {
	static, err := catalog.NewStatic()
	if err != nil {
		return nil, err
	}
	client, err := supabaseClient(cfg)
	if err != nil {
		return nil, err
	}
	logger := logging.Component(c.log(), "catalog")
	if client == nil {
		return catalog.New(nil, static, logger), nil
	}
	return catalog.New(catalog.NewRemote(client), static, logger), nil
}

func (c *commandContext) analytics(cfg *config.Config, store *prefs.Store) *analytics.Tracker {
	logger := logging.Component(c.log(), "analytics")
	client, err := supabaseClient(cfg)
	if err != nil || client == nil {
		return analytics.New(nil, store.UserID, logger)
	}
	return analytics.New(client, store.UserID, logger)
}

func (c *commandContext) prefs(cfg *config.Config) *prefs.Store {
	return prefs.Open(cfg.Store.Path, logging.Component(c.log(), "prefs"))
}
