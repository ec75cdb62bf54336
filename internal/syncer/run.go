package syncer

import (
	"context"
	"fmt"

	"anisync/internal/formatter"
	"anisync/internal/logging"
	"anisync/internal/resolvecache"
	"anisync/internal/titles"
)

// RunOptions controls a sync run.
type RunOptions struct {
	// Force overwrites pages that already exist.
	Force bool
	// DryRun resolves and reports but never writes to the destination.
	DryRun bool
	// Refresh bypasses cached resolutions and queries the source again.
	Refresh bool
}

// FailedTitle records one title that could not be synchronized and why.
type FailedTitle struct {
	Title  string
	Reason string
}

// Summary is the outcome report of a sync run.
type Summary struct {
	RunID   string
	Total   int
	Created int
	Updated int
	Skipped int
	Failed  []FailedTitle
	DryRun  bool
}

// FailedInputs returns the failed titles as input entries, for the
// unmatched report file.
func (s Summary) FailedInputs() []titles.InputTitle {
	failed := make([]titles.InputTitle, 0, len(s.Failed))
	for _, f := range s.Failed {
		failed = append(failed, titles.ParseLine(f.Title))
	}
	return failed
}

// Run synchronizes the input entries into the catalog. Per-title
// failures are collected in the summary; only setup failures (loading
// the catalog, an unreadable cache) abort the run.
func (s *Syncer) Run(ctx context.Context, entries []titles.InputTitle, opts RunOptions) (Summary, error) {
	summary := Summary{RunID: s.runID, Total: len(entries), DryRun: opts.DryRun}

	catalog, err := loadCatalog(ctx, s.api, s.cfg.Notion.CatalogDBID)
	if err != nil {
		return summary, err
	}
	genres, err := loadGenres(ctx, s.api, s.cfg.Notion.GenresDBID)
	if err != nil {
		return summary, err
	}

	s.logger.Info("sync run starting",
		logging.Int("titles", len(entries)),
		logging.Int("catalog_pages", len(catalog.pages)),
		logging.Bool("force", opts.Force),
		logging.Bool("dry_run", opts.DryRun))

	for i, entry := range entries {
		s.reportProgress(i, len(entries), entry.Display)
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if err := s.syncOne(ctx, entry, catalog, genres, opts, &summary); err != nil {
			summary.Failed = append(summary.Failed, FailedTitle{Title: entry.Raw, Reason: err.Error()})
			s.logger.Warn("title failed",
				logging.String(logging.FieldTitle, entry.Display),
				logging.Error(err))
		}
	}
	s.reportProgress(len(entries), len(entries), "")

	s.logger.Info("sync run finished",
		logging.Int("created", summary.Created),
		logging.Int("updated", summary.Updated),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", len(summary.Failed)))
	return summary, nil
}

func (s *Syncer) syncOne(ctx context.Context, entry titles.InputTitle, catalog *catalogIndex, genres *genreIndex, opts RunOptions, summary *Summary) error {
	resolved, err := s.resolveCached(ctx, entry, opts.Refresh)
	if err != nil {
		return err
	}
	if resolved.Outcome != resolvecache.OutcomeMatched || resolved.Media == nil {
		if resolved.Detail != "" {
			return fmt.Errorf("%s: %s", resolved.Outcome, resolved.Detail)
		}
		return fmt.Errorf("%s", resolved.Outcome)
	}

	record := formatter.Build(*resolved.Media, entry)
	existing := catalog.find(record.EnglishTitle, record.RomajiTitle, entry.Display)

	if existing != nil && !opts.Force {
		s.logger.Info("skipping existing page",
			logging.String(logging.FieldTitle, record.EnglishTitle),
			logging.String(logging.FieldPageID, existing.ID))
		summary.Skipped++
		return nil
	}

	properties := record.Properties(genres.ids(record.Genres))

	if opts.DryRun {
		if existing != nil {
			summary.Updated++
		} else {
			summary.Created++
		}
		s.logger.Info("dry run, not writing",
			logging.String(logging.FieldTitle, record.EnglishTitle),
			logging.Bool("exists", existing != nil))
		return nil
	}

	if existing != nil {
		if _, err := s.api.UpdatePage(ctx, existing.ID, properties, record.Icon(), record.PageCover()); err != nil {
			return err
		}
		summary.Updated++
		return nil
	}

	page, err := s.api.CreatePage(ctx, s.cfg.Notion.CatalogDBID, properties, record.Icon(), record.PageCover())
	if err != nil {
		return err
	}
	// Index the new page under every spelling so a later line naming
	// the same series does not create a duplicate.
	for _, name := range []string{record.EnglishTitle, record.RomajiTitle, entry.Display} {
		if name == "" {
			continue
		}
		key := titles.Normalize(name)
		if _, exists := catalog.byTitle[key]; !exists {
			catalog.byTitle[key] = page
		}
	}
	summary.Created++
	return nil
}
