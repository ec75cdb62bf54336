package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations used across commands.
type Paths struct {
	InputFile     string `toml:"input_file"`
	TitlesFile    string `toml:"titles_file"`
	UnmatchedFile string `toml:"unmatched_file"`
	CachePath     string `toml:"cache_path"`
	LogDir        string `toml:"log_dir"`
}

// AniList contains settings for the metadata source.
type AniList struct {
	BaseURL           string `toml:"base_url"`
	Token             string `toml:"token"`
	PerPage           int    `toml:"per_page"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
	MaxRetries        int    `toml:"max_retries"`
	RetryDelayMS      int    `toml:"retry_delay_ms"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Notion contains settings for the destination store.
type Notion struct {
	Token           string `toml:"token"`
	BaseURL         string `toml:"base_url"`
	Version         string `toml:"version"`
	CatalogDBID     string `toml:"catalog_db_id"`
	GenresDBID      string `toml:"genres_db_id"`
	WatchedRelation string `toml:"watched_relation"`
	GenresSource    string `toml:"genres_source"`
	GenresTarget    string `toml:"genres_target"`
	MaxRetries      int    `toml:"max_retries"`
	RetryDelayMS    int    `toml:"retry_delay_ms"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Matcher contains tunables for candidate ranking.
type Matcher struct {
	// SimilarityFloor is the minimum similarity score a candidate needs to
	// be auto-selected. Candidates below the floor force disambiguation.
	SimilarityFloor float64 `toml:"similarity_floor"`
}

// Updaters contains behavior toggles for the field-updater passes.
type Updaters struct {
	OverwriteHeaderCover   bool `toml:"overwrite_header_cover"`
	OverwritePropertyCover bool `toml:"overwrite_property_cover"`
}

// Vision contains settings for the image title extractor.
type Vision struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Prompt         string `toml:"prompt"`
	InputDir       string `toml:"input_dir"`
	OutputFile     string `toml:"output_file"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for anisync.
type Config struct {
	Paths    Paths    `toml:"paths"`
	AniList  AniList  `toml:"anilist"`
	Notion   Notion   `toml:"notion"`
	Matcher  Matcher  `toml:"matcher"`
	Updaters Updaters `toml:"updaters"`
	Vision   Vision   `toml:"vision"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/anisync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("anisync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs to write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.CachePath), filepath.Dir(c.Paths.UnmatchedFile)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
