package syncer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"anisync/internal/anilist"
	"anisync/internal/config"
	"anisync/internal/logging"
	"anisync/internal/notion"
	"anisync/internal/resolvecache"
	"anisync/internal/resolver"
	"anisync/internal/titles"
)

// Chooser resolves an ambiguous title interactively. Returning nil
// without an error means the user declined to pick; the title stays
// unresolved. Batch runs have no chooser and never block.
type Chooser interface {
	Choose(entry titles.InputTitle, candidates []resolver.Candidate) (*anilist.Media, error)
}

// ProgressFunc receives per-item progress for long passes.
type ProgressFunc func(done, total int, label string)

// Syncer drives catalog synchronization.
type Syncer struct {
	cfg      *config.Config
	resolver *resolver.Resolver
	cache    *resolvecache.Store
	api      notion.API
	logger   *slog.Logger
	chooser  Chooser
	progress ProgressFunc
	runID    string
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithChooser enables interactive disambiguation.
func WithChooser(chooser Chooser) Option {
	return func(s *Syncer) { s.chooser = chooser }
}

// WithProgress reports per-item progress to the callback.
func WithProgress(progress ProgressFunc) Option {
	return func(s *Syncer) { s.progress = progress }
}

// New creates a Syncer. Each Syncer carries a fresh run ID that tags
// every log record it emits.
func New(cfg *config.Config, res *resolver.Resolver, cache *resolvecache.Store, api notion.API, logger *slog.Logger, opts ...Option) *Syncer {
	runID := uuid.NewString()
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Syncer{
		cfg:      cfg,
		resolver: res,
		cache:    cache,
		api:      api,
		logger:   logger.With(logging.String(logging.FieldRunID, runID)),
		runID:    runID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID returns the correlation ID for this Syncer's run.
func (s *Syncer) RunID() string { return s.runID }

func (s *Syncer) reportProgress(done, total int, label string) {
	if s.progress != nil {
		s.progress(done, total, label)
	}
}

// resolveCached resolves a title through the cache. A cached match is
// reused; a cached failure is returned as-is unless refresh is set, in
// which case the source is queried again and the cache row replaced.
// Lookup errors (network, retry exhaustion) do not overwrite the cache.
func (s *Syncer) resolveCached(ctx context.Context, entry titles.InputTitle, refresh bool) (resolvecache.Entry, error) {
	if !refresh {
		cached, err := s.cache.Get(ctx, entry.Normalized)
		if err != nil {
			return resolvecache.Entry{}, err
		}
		if cached != nil {
			s.logger.Debug("cache hit",
				logging.String(logging.FieldTitle, entry.Display),
				logging.String(logging.FieldOutcome, string(cached.Outcome)))
			return *cached, nil
		}
	}

	resolution, err := s.resolver.Resolve(ctx, entry)
	if err != nil {
		return resolvecache.Entry{}, err
	}

	if resolution.Outcome == resolver.OutcomeAmbiguous && s.chooser != nil {
		media, chooseErr := s.chooser.Choose(entry, resolution.Candidates)
		if chooseErr != nil {
			return resolvecache.Entry{}, chooseErr
		}
		if media != nil {
			resolution = resolver.Resolution{Outcome: resolver.OutcomeMatched, Media: media}
		}
	}

	cacheEntry := resolvecache.Entry{
		NormalizedTitle: entry.Normalized,
		DisplayTitle:    entry.Display,
		Season:          entry.Season,
		Outcome:         resolvecache.Outcome(resolution.Outcome),
		Media:           resolution.Media,
		Detail:          resolution.Detail,
	}
	if err := s.cache.Put(ctx, cacheEntry); err != nil {
		return resolvecache.Entry{}, err
	}
	s.logger.Info("resolved",
		logging.String(logging.FieldTitle, entry.Display),
		logging.String(logging.FieldOutcome, string(cacheEntry.Outcome)))
	return cacheEntry, nil
}
