package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/babaru/internal/catalog"
	"github.com/ivlev/babaru/internal/config"
	"github.com/ivlev/babaru/internal/director"
	"github.com/ivlev/babaru/internal/renderer"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "babaru.toml")
	content := "[store]\npath = \"" + filepath.Join(dir, "prefs.db") + "\"\n\n[render]\noutput_dir = \"" + filepath.Join(dir, "output") + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompositionWriteValidateShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "intro.yaml")

	out, err := execute(t, "composition", "write", path)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("write output = %q", out)
	}
	if _, err := execute(t, "composition", "write", path); err == nil {
		t.Error("Expected refusal to overwrite")
	}

	out, err = execute(t, "composition", "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "240 frames @ 30 fps, 1920x1080") {
		t.Errorf("validate output = %q", out)
	}

	out, err = execute(t, "composition", "show", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"letters", "episode overlay", "fade out"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q", want)
		}
	}
}

func TestCompositionValidateReportsProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("fps: 0\ntotal_frames: 240\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "composition", "validate", path)
	if err == nil || !strings.Contains(err.Error(), "fps") {
		t.Errorf("Expected fps problem, got %v", err)
	}
}

func TestCatalogJSON(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t), "catalog", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var snap catalog.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !snap.Fallback || len(snap.Items) != 12 {
		t.Errorf("fallback %v with %d items", snap.Fallback, len(snap.Items))
	}
}

func TestCatalogTables(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execute(t, "--config", cfg, "catalog")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "The Chaos Begins") || !strings.Contains(out, "bundled catalog") {
		t.Errorf("item table = %s", out)
	}

	out, err = execute(t, "--config", cfg, "catalog", "--groupings")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "On Air Now") || !strings.Contains(out, "Deep Lore") {
		t.Errorf("grouping table = %s", out)
	}
}

func TestEggsCommand(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t), "eggs")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0/10 found") || !strings.Contains(out, "???") {
		t.Errorf("eggs output = %s", out)
	}
}

func TestShareCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "qr.png")
	out, err := execute(t, "--config", writeTestConfig(t), "share", "jester-origin", "-o", target, "--size", "128")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "https://babaru.tv/comics/the-jesters-origin") {
		t.Errorf("share output = %q", out)
	}
	if info, err := os.Stat(target); err != nil || info.Size() == 0 {
		t.Errorf("QR file not written: %v", err)
	}

	if _, err := execute(t, "--config", writeTestConfig(t), "share", "missing"); err == nil {
		t.Error("Expected error for unknown comic")
	}
}

func TestOutputSize(t *testing.T) {
	a, err := renderer.New(director.Canonical())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{0, 0, 1920, 1080},
		{1280, 0, 1280, 720},
		{0, 360, 640, 360},
		{100, 100, 100, 100},
		{1000, 0, 1000, 564},
	}
	for _, tt := range tests {
		w, h := outputSize(a, tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("outputSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestRenderTable(t *testing.T) {
	if renderTable(nil, nil, nil) != "" {
		t.Error("Expected empty table without headers")
	}
	out := renderTable([]string{"A", "B"}, [][]string{{"x"}, {"y", "z"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"A", "B", "x", "y", "z"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func TestItemRowsAddProductionNote(t *testing.T) {
	rows := itemRows([]catalog.Item{
		{ID: "a", Title: "A", Status: catalog.InProduction, Rating: 4.25},
		{ID: "b", Title: "B", Status: catalog.Released, Rating: 5},
	}, zeroRand{})
	if rows[0][5] == "" || rows[1][5] != "" {
		t.Errorf("notes = %q, %q", rows[0][5], rows[1][5])
	}
	if rows[1][3] != "5.0" {
		t.Errorf("rating = %q", rows[1][3])
	}
}

func TestRasterOptions(t *testing.T) {
	if _, err := rasterOptions(config.Render{Detector: "keyed", Scaler: "nearest"}); err != nil {
		t.Fatalf("keyed detector rejected: %v", err)
	}
	if _, err := rasterOptions(config.Render{Detector: "edge"}); err == nil {
		t.Error("Expected unknown detector error")
	}
}
