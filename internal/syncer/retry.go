package syncer

import (
	"context"

	"anisync/internal/logging"
	"anisync/internal/resolvecache"
	"anisync/internal/titles"
)

// RetrySummary reports a retry pass over previously unresolved titles.
type RetrySummary struct {
	Attempted int
	Recovered int
	Remaining []FailedTitle
}

// Retry re-resolves every cache entry that previously failed or was
// ambiguous. Recovered titles become normal cache matches and will sync
// on the next run; the rest keep their refreshed failure outcome.
func (s *Syncer) Retry(ctx context.Context, filter *titles.Filter) (RetrySummary, error) {
	var summary RetrySummary

	unresolved, err := s.cache.Unresolved(ctx)
	if err != nil {
		return summary, err
	}

	for i, cached := range unresolved {
		entry := titles.InputTitle{
			Raw:        cached.DisplayTitle,
			Display:    cached.DisplayTitle,
			Normalized: cached.NormalizedTitle,
			Season:     cached.Season,
		}
		if !filter.Match(entry) {
			continue
		}
		s.reportProgress(i, len(unresolved), entry.Display)
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Attempted++

		resolved, err := s.resolveCached(ctx, entry, true)
		if err != nil {
			summary.Remaining = append(summary.Remaining, FailedTitle{Title: entry.Display, Reason: err.Error()})
			s.logger.Warn("retry failed",
				logging.String(logging.FieldTitle, entry.Display),
				logging.Error(err))
			continue
		}
		if resolved.Outcome == resolvecache.OutcomeMatched {
			summary.Recovered++
			continue
		}
		summary.Remaining = append(summary.Remaining, FailedTitle{Title: entry.Display, Reason: resolved.Detail})
	}
	s.reportProgress(len(unresolved), len(unresolved), "")

	s.logger.Info("retry finished",
		logging.Int("attempted", summary.Attempted),
		logging.Int("recovered", summary.Recovered),
		logging.Int("remaining", len(summary.Remaining)))
	return summary, nil
}
