package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsOverSparseFile(t *testing.T) {
	path := writeConfig(t, `
[notion]
token = "secret-token"
catalog_db_id = "db123"
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.AniList.BaseURL != defaultAniListBaseURL {
		t.Errorf("anilist base URL = %q, want default", cfg.AniList.BaseURL)
	}
	if cfg.AniList.PerPage != defaultAniListPerPage {
		t.Errorf("per page = %d, want %d", cfg.AniList.PerPage, defaultAniListPerPage)
	}
	if cfg.Matcher.SimilarityFloor != defaultSimilarityFloor {
		t.Errorf("similarity floor = %v, want %v", cfg.Matcher.SimilarityFloor, defaultSimilarityFloor)
	}
	if cfg.Notion.Version != defaultNotionVersion {
		t.Errorf("notion version = %q, want %q", cfg.Notion.Version, defaultNotionVersion)
	}
	if cfg.Notion.MaxRetries != defaultNotionRetries || cfg.Notion.RetryDelayMS != defaultNotionRetryWait {
		t.Errorf("notion retries = %d/%dms, want defaults", cfg.Notion.MaxRetries, cfg.Notion.RetryDelayMS)
	}
}

func TestLoadNotionRetriesIndependentOfAniList(t *testing.T) {
	path := writeConfig(t, `
[anilist]
max_retries = 9
retry_delay_ms = 9000

[notion]
token = "secret-token"
catalog_db_id = "db123"
max_retries = 2
retry_delay_ms = 250
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notion.MaxRetries != 2 || cfg.Notion.RetryDelayMS != 250 {
		t.Errorf("notion retries = %d/%dms, want 2/250ms", cfg.Notion.MaxRetries, cfg.Notion.RetryDelayMS)
	}
	if cfg.AniList.MaxRetries != 9 || cfg.AniList.RetryDelayMS != 9000 {
		t.Errorf("anilist retries = %d/%dms, want 9/9000ms", cfg.AniList.MaxRetries, cfg.AniList.RetryDelayMS)
	}
}

func TestLoadRejectsMissingNotionToken(t *testing.T) {
	t.Setenv("ANISYNC_NOTION_TOKEN", "")
	path := writeConfig(t, `
[notion]
catalog_db_id = "db123"
`)

	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected error for missing notion token")
	}
	if !strings.Contains(err.Error(), "notion.token") {
		t.Errorf("error %q should mention notion.token", err)
	}
}

func TestLoadRejectsMissingCatalogDatabase(t *testing.T) {
	path := writeConfig(t, `
[notion]
token = "secret-token"
`)

	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected error for missing catalog_db_id")
	}
	if !strings.Contains(err.Error(), "catalog_db_id") {
		t.Errorf("error %q should mention catalog_db_id", err)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("ANISYNC_NOTION_TOKEN", "env-token")
	path := writeConfig(t, `
[notion]
token = "file-token"
catalog_db_id = "db123"
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notion.Token != "env-token" {
		t.Errorf("token = %q, want env override", cfg.Notion.Token)
	}
}

func TestLoadExpandsHomePaths(t *testing.T) {
	path := writeConfig(t, `
[paths]
input_file = "~/lists/anime.txt"

[notion]
token = "secret-token"
catalog_db_id = "db123"
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	want := filepath.Join(home, "lists", "anime.txt")
	if cfg.Paths.InputFile != want {
		t.Errorf("input file = %q, want %q", cfg.Paths.InputFile, want)
	}
}

func TestLoadRejectsSimilarityFloorOutOfRange(t *testing.T) {
	path := writeConfig(t, `
[matcher]
similarity_floor = 1.5

[notion]
token = "secret-token"
catalog_db_id = "db123"
`)

	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "similarity_floor") {
		t.Fatalf("expected similarity_floor error, got %v", err)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "xml"

[notion]
token = "secret-token"
catalog_db_id = "db123"
`)

	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestLoadMissingExplicitPathFallsBackToDefaults(t *testing.T) {
	t.Setenv("ANISYNC_NOTION_TOKEN", "env-token")
	missing := filepath.Join(t.TempDir(), "nope.toml")

	// Defaults still lack a catalog database, so validation fails, but the
	// missing file itself is not an error.
	_, _, _, err := Load(missing)
	if err == nil || !strings.Contains(err.Error(), "catalog_db_id") {
		t.Fatalf("expected catalog_db_id validation error, got %v", err)
	}
}

func TestCreateSampleParsesBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	t.Setenv("ANISYNC_NOTION_TOKEN", "env-token")

	_, _, exists, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error from sample (empty catalog_db_id)")
	}
	if !exists {
		t.Error("sample config should have been found")
	}
	if !strings.Contains(err.Error(), "catalog_db_id") {
		t.Errorf("error %q should mention catalog_db_id", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CachePath = filepath.Join(base, "cache", "resolutions.db")
	cfg.Paths.UnmatchedFile = filepath.Join(base, "out", "unmatched.txt")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.CachePath), filepath.Dir(cfg.Paths.UnmatchedFile)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q missing after EnsureDirectories", dir)
		}
	}
}

func TestExpandPathKeepsAbsolute(t *testing.T) {
	got, err := ExpandPath("/var/tmp/anisync")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != "/var/tmp/anisync" {
		t.Errorf("got %q", got)
	}
}
