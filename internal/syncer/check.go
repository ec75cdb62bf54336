package syncer

import (
	"context"

	"anisync/internal/logging"
	"anisync/internal/resolvecache"
	"anisync/internal/titles"
)

// CheckSummary reports which catalog pages still resolve on the source.
type CheckSummary struct {
	Checked int
	Found   int
	Missing []FailedTitle
}

// Check verifies that every destination page still resolves against the
// metadata source. Resolutions go through the cache, so a repeated check
// only re-queries unknown titles.
func (s *Syncer) Check(ctx context.Context, filter *titles.Filter) (CheckSummary, error) {
	var summary CheckSummary

	catalog, err := loadCatalog(ctx, s.api, s.cfg.Notion.CatalogDBID)
	if err != nil {
		return summary, err
	}

	for i, page := range catalog.pages {
		title := page.Title()
		if title == "" {
			continue
		}
		entry := titles.ParseLine(title)
		if !filter.Match(entry) {
			continue
		}
		s.reportProgress(i, len(catalog.pages), title)
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Checked++

		resolved, err := s.resolveCached(ctx, entry, false)
		if err != nil {
			summary.Missing = append(summary.Missing, FailedTitle{Title: title, Reason: err.Error()})
			continue
		}
		if resolved.Outcome == resolvecache.OutcomeMatched {
			summary.Found++
			continue
		}
		summary.Missing = append(summary.Missing, FailedTitle{Title: title, Reason: resolved.Detail})
	}
	s.reportProgress(len(catalog.pages), len(catalog.pages), "")

	s.logger.Info("check finished",
		logging.Int("checked", summary.Checked),
		logging.Int("found", summary.Found),
		logging.Int("missing", len(summary.Missing)))
	return summary, nil
}
