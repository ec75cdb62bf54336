// Package testsupport builds ready-to-use configurations for tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"anisync/internal/config"
)

// Option mutates the config under construction.
type Option func(*config.Config)

// WithNotion overrides the destination identifiers.
func WithNotion(token, catalogDBID, genresDBID string) Option {
	return func(cfg *config.Config) {
		cfg.Notion.Token = token
		cfg.Notion.CatalogDBID = catalogDBID
		cfg.Notion.GenresDBID = genresDBID
	}
}

// NewConfig returns a validated config whose paths all live inside a
// per-test temp directory.
func NewConfig(t *testing.T, opts ...Option) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputFile = filepath.Join(base, "anime_list.txt")
	cfg.Paths.TitlesFile = ""
	cfg.Paths.UnmatchedFile = filepath.Join(base, "unmatched_anime.txt")
	cfg.Paths.CachePath = filepath.Join(base, "cache", "resolutions.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Vision.InputDir = filepath.Join(base, "screenshots")
	cfg.Vision.OutputFile = filepath.Join(base, "anime_titles.txt")
	cfg.Notion.Token = "test-token"
	cfg.Notion.CatalogDBID = "catalog-db"
	cfg.Notion.GenresDBID = "genres-db"
	cfg.AniList.RequestIntervalMS = 0
	cfg.AniList.RetryDelayMS = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
