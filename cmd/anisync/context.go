package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"anisync/internal/anilist"
	"anisync/internal/config"
	"anisync/internal/logging"
	"anisync/internal/notion"
	"anisync/internal/resolvecache"
	"anisync/internal/resolver"
	"anisync/internal/syncer"
)

type commandContext struct {
	configFlag *string
	debugFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, debugFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		debugFlag:  debugFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func (c *commandContext) buildLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if c.debugFlag != nil && *c.debugFlag {
		level = "debug"
	}
	outputs := []string{"stderr"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		outputs = append(outputs, filepath.Join(dir, "anisync.log"))
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

// syncEnv bundles the wired components a sync-family command needs.
type syncEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *resolvecache.Store
	syncer *syncer.Syncer
}

// buildSyncEnv constructs the full pipeline from configuration. The
// returned cleanup closes the resolution cache and must always run.
func (c *commandContext) buildSyncEnv(opts ...syncer.Option) (*syncEnv, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := c.buildLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}

	searcher, err := anilist.New(anilist.Settings{
		BaseURL:         cfg.AniList.BaseURL,
		Token:           cfg.AniList.Token,
		PerPage:         cfg.AniList.PerPage,
		RequestInterval: time.Duration(cfg.AniList.RequestIntervalMS) * time.Millisecond,
		MaxRetries:      cfg.AniList.MaxRetries,
		RetryDelay:      time.Duration(cfg.AniList.RetryDelayMS) * time.Millisecond,
		Timeout:         time.Duration(cfg.AniList.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create anilist client: %w", err)
	}

	api, err := notion.New(notion.Settings{
		BaseURL:    cfg.Notion.BaseURL,
		Token:      cfg.Notion.Token,
		Version:    cfg.Notion.Version,
		MaxRetries: cfg.Notion.MaxRetries,
		RetryDelay: time.Duration(cfg.Notion.RetryDelayMS) * time.Millisecond,
		Timeout:    time.Duration(cfg.Notion.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create notion client: %w", err)
	}

	cache, err := resolvecache.Open(cfg.Paths.CachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open resolution cache: %w", err)
	}
	cleanup := func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close resolution cache", logging.Error(err))
		}
	}

	res := resolver.New(searcher, cfg.Matcher.SimilarityFloor, logger)
	sync := syncer.New(cfg, res, cache, api, logger, opts...)

	env := &syncEnv{
		cfg:    cfg,
		logger: logger,
		cache:  cache,
		syncer: sync,
	}
	return env, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
