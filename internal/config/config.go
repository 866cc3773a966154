// Package config loads the babaru TOML configuration and overlays it with
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	Render  Render  `toml:"render"`
	Content Content `toml:"content"`
	Chat    Chat    `toml:"chat"`
	Server  Server  `toml:"server"`
	Store   Store   `toml:"store"`
	Logging Logging `toml:"logging"`
}

// Render controls video and frame export.
type Render struct {
	Composition string `toml:"composition"` // empty: built-in intro
	AssetDir    string `toml:"asset_dir"`   // sprite directory or PDF sheet
	ClipPath    string `toml:"clip_path"`
	AudioPath   string `toml:"audio_path"`
	OutputDir   string `toml:"output_dir"`
	Width       int    `toml:"width"`  // 0: composition width
	Height      int    `toml:"height"` // 0: composition height
	Encoder     string `toml:"encoder"`
	Quality     int    `toml:"quality"`
	Workers     int    `toml:"workers"` // 0: sized from CPU and memory
	DPI         int    `toml:"dpi"`
	Detector    string `toml:"detector"` // alpha or keyed
	Scaler      string `toml:"scaler"`   // nearest, bilinear or catmull-rom
}

// Content points at the hosted catalog database.
type Content struct {
	SupabaseURL     string `toml:"supabase_url" env:"SUPABASE_URL"`
	SupabaseAnonKey string `toml:"supabase_anon_key" env:"SUPABASE_ANON_KEY"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Chat configures the mascot chat backend.
type Chat struct {
	APIURL         string `toml:"api_url" env:"BABARU_API_URL"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Server configures the HTTP surface.
type Server struct {
	Bind         string `toml:"bind"`
	Port         int    `toml:"port" env:"PORT"`
	ShareBaseURL string `toml:"share_base_url"`
}

// Store configures the preference database.
type Store struct {
	Path string `toml:"path" env:"BABARU_STORE_PATH"`
}

// Logging selects level and output format.
type Logging struct {
	Level  string `toml:"level" env:"BABARU_LOG_LEVEL"`
	Format string `toml:"format"`
}

// Configured reports whether the hosted database can be used.
func (c Content) Configured() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Bind, s.Port)
}

// Load reads path (or the default locations when empty), applies the
// environment and validates. The returned bool reports whether a file was
// found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path string) (string, bool, error) {
	candidates := []string{path}
	if path == "" {
		candidates = []string{"babaru.toml", "~/.config/babaru/config.toml"}
	}
	for _, c := range candidates {
		expanded, err := expandPath(c)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil && !info.IsDir():
			return expanded, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	if path != "" {
		expanded, _ := expandPath(path)
		return expanded, false, nil
	}
	return "", false, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return err
	}
	if c.Render.AssetDir, err = expandPath(c.Render.AssetDir); err != nil {
		return err
	}
	if c.Render.OutputDir, err = expandPath(c.Render.OutputDir); err != nil {
		return err
	}
	c.Chat.APIURL = strings.TrimRight(c.Chat.APIURL, "/")
	c.Content.SupabaseURL = strings.TrimRight(c.Content.SupabaseURL, "/")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}
