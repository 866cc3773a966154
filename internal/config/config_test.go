package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.Content.Configured() {
		t.Error("Expected hosted database to be unconfigured by default")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "babaru.toml")
	data := `
[render]
workers = 3
quality = 30

[chat]
api_url = "http://chat.local/"

[server]
port = 8080
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SUPABASE_URL", "https://db.example.com/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("PORT", "9090")
	t.Setenv("BABARU_LOG_LEVEL", "DEBUG")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("Expected %s to be found, got %s (%v)", path, resolved, exists)
	}
	if cfg.Render.Workers != 3 || cfg.Render.Quality != 30 {
		t.Errorf("File values not applied: %+v", cfg.Render)
	}
	if cfg.Render.DPI != 150 {
		t.Errorf("Expected default dpi to survive, got %d", cfg.Render.DPI)
	}
	if cfg.Chat.APIURL != "http://chat.local" {
		t.Errorf("Expected trimmed api url, got %s", cfg.Chat.APIURL)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected env to override port, got %d", cfg.Server.Port)
	}
	if !cfg.Content.Configured() || cfg.Content.SupabaseURL != "https://db.example.com" {
		t.Errorf("Expected content configured from env, got %+v", cfg.Content)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected normalized level, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Error("Expected missing file")
	}
	if resolved != path {
		t.Errorf("Expected resolved %s, got %s", path, resolved)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[render\nworkers = "), 0644)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestValidateListsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Render.Encoder = "vp9"
	cfg.Render.Width = 1921
	cfg.Chat.APIURL = "ftp://chat"
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"
	cfg.Render.Scaler = "lanczos"
	cfg.Render.Detector = "edge"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"unknown encoder", "must be even", "api_url", "port 0", "unknown format", "unknown scaler", "unknown detector"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %s", want, msg)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/babaru/prefs.db")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "babaru/prefs.db") {
		t.Errorf("Unexpected expansion %s", got)
	}
	if got, _ := expandPath("/abs"); got != "/abs" {
		t.Errorf("Expected absolute path untouched, got %s", got)
	}
}
