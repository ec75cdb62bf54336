package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Credential and identifier
// errors here are fatal before any work starts.
func (c *Config) Validate() error {
	if err := c.validateNotion(); err != nil {
		return err
	}
	if err := c.validateAniList(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNotion() error {
	if c.Notion.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/anisync/config.toml"
		}
		return fmt.Errorf("notion.token is required. Set ANISYNC_NOTION_TOKEN or edit %s (create with 'anisync config init')", defaultPath)
	}
	if c.Notion.CatalogDBID == "" {
		return errors.New("notion.catalog_db_id is required")
	}
	if c.Notion.BaseURL == "" {
		return errors.New("notion.base_url must be set")
	}
	return nil
}

func (c *Config) validateAniList() error {
	if c.AniList.BaseURL == "" {
		return errors.New("anilist.base_url must be set")
	}
	if c.AniList.RequestIntervalMS < 0 {
		return errors.New("anilist.request_interval_ms must not be negative")
	}
	if c.AniList.PerPage > 50 {
		return errors.New("anilist.per_page must be at most 50")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.SimilarityFloor < 0 || c.Matcher.SimilarityFloor > 1 {
		return errors.New("matcher.similarity_floor must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
