package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

var (
	encoders  = []string{"auto", "libx264", "h264_nvenc", "h264_videotoolbox"}
	detectors = []string{"alpha", "keyed"}
	scalers   = []string{"nearest", "bilinear", "catmull-rom"}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Render.Width < 0 || c.Render.Height < 0 {
		errs = append(errs, fmt.Errorf("render: output size %dx%d is negative", c.Render.Width, c.Render.Height))
	}
	if c.Render.Width%2 != 0 || c.Render.Height%2 != 0 {
		errs = append(errs, fmt.Errorf("render: output size %dx%d must be even for yuv420p", c.Render.Width, c.Render.Height))
	}
	if !slices.Contains(encoders, c.Render.Encoder) {
		errs = append(errs, fmt.Errorf("render: unknown encoder %q", c.Render.Encoder))
	}
	if c.Render.Quality < 0 || c.Render.Quality > 100 {
		errs = append(errs, fmt.Errorf("render: quality %d out of range 0-100", c.Render.Quality))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, errors.New("render: workers must not be negative"))
	}
	if !slices.Contains(detectors, c.Render.Detector) {
		errs = append(errs, fmt.Errorf("render: unknown detector %q", c.Render.Detector))
	}
	if !slices.Contains(scalers, c.Render.Scaler) {
		errs = append(errs, fmt.Errorf("render: unknown scaler %q", c.Render.Scaler))
	}
	if c.Render.DPI <= 0 {
		errs = append(errs, errors.New("render: dpi must be positive"))
	}

	if c.Content.SupabaseURL != "" {
		if err := checkURL(c.Content.SupabaseURL); err != nil {
			errs = append(errs, fmt.Errorf("content: supabase_url: %w", err))
		}
	}
	if c.Content.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("content: timeout_seconds must be positive"))
	}

	if c.Chat.APIURL == "" {
		errs = append(errs, errors.New("chat: api_url is required"))
	} else if err := checkURL(c.Chat.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("chat: api_url: %w", err))
	}
	if c.Chat.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("chat: timeout_seconds must be positive"))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server: port %d out of range", c.Server.Port))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http(s)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
