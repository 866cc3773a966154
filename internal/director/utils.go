package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultDir is where compositions are written when no path is given.
const DefaultDir = "compositions"

// GenerateCompositionPath creates a timestamped composition filename in dir
func GenerateCompositionPath(dir string) string {
	if dir == "" {
		dir = DefaultDir
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("composition_%s.yaml", timestamp))
}

// FindLatestComposition finds the most recent composition file in dir
func FindLatestComposition(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read compositions directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var found []candidate
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}

	if len(found) == 0 {
		return "", fmt.Errorf("no composition files found in %s", dir)
	}

	// Newest first
	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime.After(found[j].modTime)
	})

	return found[0].path, nil
}
