package config

import (
	"os"
	"strings"
)

// normalize expands paths, applies environment overrides for secrets, and
// fills gaps left by a sparse config file.
func (c *Config) normalize() error {
	if token := strings.TrimSpace(os.Getenv("ANISYNC_NOTION_TOKEN")); token != "" {
		c.Notion.Token = token
	}
	if token := strings.TrimSpace(os.Getenv("ANISYNC_ANILIST_TOKEN")); token != "" {
		c.AniList.Token = token
	}
	if key := strings.TrimSpace(os.Getenv("ANISYNC_VISION_API_KEY")); key != "" {
		c.Vision.APIKey = key
	}

	for _, field := range []*string{
		&c.Paths.InputFile,
		&c.Paths.TitlesFile,
		&c.Paths.UnmatchedFile,
		&c.Paths.CachePath,
		&c.Paths.LogDir,
		&c.Vision.InputDir,
		&c.Vision.OutputFile,
	} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.AniList.BaseURL = strings.TrimRight(strings.TrimSpace(c.AniList.BaseURL), "/")
	c.Notion.BaseURL = strings.TrimRight(strings.TrimSpace(c.Notion.BaseURL), "/")
	c.Notion.Token = strings.TrimSpace(c.Notion.Token)
	c.AniList.Token = strings.TrimSpace(c.AniList.Token)
	c.Notion.CatalogDBID = strings.TrimSpace(c.Notion.CatalogDBID)
	c.Notion.GenresDBID = strings.TrimSpace(c.Notion.GenresDBID)

	if c.AniList.PerPage <= 0 {
		c.AniList.PerPage = defaultAniListPerPage
	}
	if c.AniList.MaxRetries <= 0 {
		c.AniList.MaxRetries = defaultMaxRetries
	}
	if c.AniList.RetryDelayMS <= 0 {
		c.AniList.RetryDelayMS = defaultRetryDelay
	}
	if c.AniList.TimeoutSeconds <= 0 {
		c.AniList.TimeoutSeconds = defaultAniListTimeout
	}
	if c.Notion.MaxRetries <= 0 {
		c.Notion.MaxRetries = defaultNotionRetries
	}
	if c.Notion.RetryDelayMS <= 0 {
		c.Notion.RetryDelayMS = defaultNotionRetryWait
	}
	if c.Notion.TimeoutSeconds <= 0 {
		c.Notion.TimeoutSeconds = defaultNotionTimeout
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeout
	}
	if strings.TrimSpace(c.Notion.WatchedRelation) == "" {
		c.Notion.WatchedRelation = defaultWatchedRelation
	}
	if strings.TrimSpace(c.Notion.GenresSource) == "" {
		c.Notion.GenresSource = defaultGenresSource
	}
	if strings.TrimSpace(c.Notion.GenresTarget) == "" {
		c.Notion.GenresTarget = defaultGenresTarget
	}

	return nil
}
