// Package spotpack merges CSV location datasets with downloaded photos into a single JSON document.
package spotpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Source is a CSV dataset, tagged in each spot via the source field.
type Source struct {
	Name string
	Path string
}

// PhotoDir is a flat directory of {id}_{seq}.{ext} photos.
type PhotoDir struct {
	Label string
	Path  string
}

// Config holds configuration for spotpack.
type Config struct {
	Sources      []Source
	PhotoDirs    []PhotoDir
	PhotosOutDir string
	OutputJSON   string
	// URLRoot prefixes every photo path written to the JSON document.
	URLRoot   string
	Generated string
}

var (
	defaultURLRoot   = "/photos"
	defaultGenerated = "spotpack"
)

// DefaultConfig returns the layout used by the smoking area app checkout.
func DefaultConfig(base string, app string) *Config {
	if app == "" {
		app = filepath.Join(base, "smoking-area-app")
	}
	return &Config{
		Sources: []Source{
			{Name: "japan", Path: filepath.Join(base, "smoking_areas_full_db_parallel.csv")},
			{Name: "worldwide", Path: filepath.Join(base, "smoking_areas_worldwide.csv")},
		},
		PhotoDirs: []PhotoDir{
			{Label: "japan", Path: filepath.Join(base, "downloaded_photos")},
			{Label: "worldwide", Path: filepath.Join(base, "downloaded_photos_worldwide")},
		},
		PhotosOutDir: filepath.Join(app, "public", "photos"),
		OutputJSON:   filepath.Join(app, "public", "data", "spots.json"),
		URLRoot:      defaultURLRoot,
		Generated:    defaultGenerated,
	}
}

// LoadConfig builds a Config from a .env file and SPOTPACK_* environment variables.
// Non-empty base and app take precedence over SPOTPACK_BASE_DIR and SPOTPACK_APP_DIR.
func LoadConfig(base string, app string) (*Config, error) {
	_ = godotenv.Load()

	if base == "" {
		base = getEnv("SPOTPACK_BASE_DIR", ".")
	}
	if app == "" {
		app = os.Getenv("SPOTPACK_APP_DIR")
	}
	c := DefaultConfig(base, app)

	if v := os.Getenv("SPOTPACK_SOURCES"); v != "" {
		pairs, err := parsePairs(v)
		if err != nil {
			return nil, fmt.Errorf("SPOTPACK_SOURCES: %w", err)
		}
		c.Sources = nil
		for _, p := range pairs {
			c.Sources = append(c.Sources, Source{Name: p[0], Path: p[1]})
		}
	}

	if v := os.Getenv("SPOTPACK_PHOTO_DIRS"); v != "" {
		pairs, err := parsePairs(v)
		if err != nil {
			return nil, fmt.Errorf("SPOTPACK_PHOTO_DIRS: %w", err)
		}
		c.PhotoDirs = nil
		for _, p := range pairs {
			c.PhotoDirs = append(c.PhotoDirs, PhotoDir{Label: p[0], Path: p[1]})
		}
	}

	c.PhotosOutDir = getEnv("SPOTPACK_PHOTOS_OUT", c.PhotosOutDir)
	c.OutputJSON = getEnv("SPOTPACK_OUTPUT_JSON", c.OutputJSON)
	c.URLRoot = getEnv("SPOTPACK_URL_ROOT", c.URLRoot)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the config can drive a consolidation run.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	seen := map[string]bool{}
	for _, s := range c.Sources {
		if s.Name == "" || s.Path == "" {
			return fmt.Errorf("source %q: name and path are required", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name: %s", s.Name)
		}
		seen[s.Name] = true
	}

	for _, d := range c.PhotoDirs {
		if d.Label == "" || strings.Contains(d.Label, "/") {
			return fmt.Errorf("invalid photo dir label: %q", d.Label)
		}
	}

	if c.PhotosOutDir == "" {
		return fmt.Errorf("photos output directory is required")
	}
	if c.OutputJSON == "" {
		return fmt.Errorf("output JSON path is required")
	}
	if !strings.HasPrefix(c.URLRoot, "/") {
		return fmt.Errorf("url root must start with /: %q", c.URLRoot)
	}
	return nil
}

// parsePairs parses "label=path,label=path".
func parsePairs(s string) ([][2]string, error) {
	var out [][2]string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("expected label=path, got %q", part)
		}
		out = append(out, [2]string{strings.TrimSpace(k), strings.TrimSpace(v)})
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
