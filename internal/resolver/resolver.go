package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"anisync/internal/anilist"
	"anisync/internal/logging"
	"anisync/internal/titles"
)

// closeMargin is how far ahead of the runner-up a non-exact best
// candidate must be before it is safe to auto-select.
const closeMargin = 0.05

// Outcome classifies a resolution.
type Outcome string

const (
	// OutcomeMatched means exactly one candidate was safe to select.
	OutcomeMatched Outcome = "matched"
	// OutcomeNoMatch means the source returned no candidates at all.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeAmbiguous means candidates exist but none cleared the
	// auto-selection bar.
	OutcomeAmbiguous Outcome = "ambiguous"
)

// Candidate is one scored search result.
type Candidate struct {
	Media anilist.Media
	Score float64
	// Exact is set when one of the candidate's titles matches the
	// query exactly after normalization.
	Exact bool
}

// Resolution is the result of resolving one input title.
type Resolution struct {
	Outcome Outcome
	// Media is set only when Outcome is OutcomeMatched.
	Media *anilist.Media
	// Candidates holds all scored results, best first. Interactive
	// callers present these when the outcome is ambiguous.
	Candidates []Candidate
	// Detail is a short human explanation of a non-match.
	Detail string
}

// Resolver ranks AniList search results for input titles.
type Resolver struct {
	searcher anilist.Searcher
	floor    float64
	logger   *slog.Logger
}

// New creates a Resolver. floor is the minimum similarity for
// auto-selection; values outside (0, 1] fall back to a safe default.
func New(searcher anilist.Searcher, floor float64, logger *slog.Logger) *Resolver {
	if floor <= 0 || floor > 1 {
		floor = 0.60
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{searcher: searcher, floor: floor, logger: logger}
}

// Resolve looks up the input title and ranks the results. A returned
// error means the lookup itself failed (network, rate limit exhaustion);
// semantic failures are reported through the Resolution outcome.
func (r *Resolver) Resolve(ctx context.Context, entry titles.InputTitle) (Resolution, error) {
	results, err := r.searcher.Search(ctx, entry.Display)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve %q: %w", entry.Display, err)
	}
	if len(results) == 0 {
		r.logger.Debug("no search results",
			logging.String(logging.FieldTitle, entry.Display))
		return Resolution{Outcome: OutcomeNoMatch, Detail: "no search results"}, nil
	}

	candidates := r.rank(entry.Display, results)
	best := candidates[0]

	r.logger.Debug("ranked candidates",
		logging.String(logging.FieldTitle, entry.Display),
		logging.Int("candidates", len(candidates)),
		logging.Float64("best_score", best.Score),
		logging.Bool("best_exact", best.Exact))

	if best.Exact {
		if len(candidates) > 1 && candidates[1].Exact {
			return Resolution{
				Outcome:    OutcomeAmbiguous,
				Candidates: candidates,
				Detail:     "multiple exact title matches",
			}, nil
		}
		media := best.Media
		return Resolution{Outcome: OutcomeMatched, Media: &media, Candidates: candidates}, nil
	}

	if best.Score < r.floor {
		return Resolution{
			Outcome:    OutcomeAmbiguous,
			Candidates: candidates,
			Detail:     fmt.Sprintf("best score %.2f below floor %.2f", best.Score, r.floor),
		}, nil
	}
	if len(candidates) > 1 && best.Score-candidates[1].Score < closeMargin {
		return Resolution{
			Outcome:    OutcomeAmbiguous,
			Candidates: candidates,
			Detail:     "top candidates too close to call",
		}, nil
	}

	media := best.Media
	return Resolution{Outcome: OutcomeMatched, Media: &media, Candidates: candidates}, nil
}

// rank scores every result against the query. Each candidate's score is
// the best similarity across all the names it is known by.
func (r *Resolver) rank(query string, results []anilist.Media) []Candidate {
	queryNormalized := normalizeForComparison(query)

	candidates := make([]Candidate, 0, len(results))
	for _, media := range results {
		candidate := Candidate{Media: media}
		for _, title := range media.AllTitles() {
			titleNormalized := normalizeForComparison(title)
			if titleNormalized == queryNormalized {
				candidate.Exact = true
				candidate.Score = 1
				break
			}
			if score := similarity(queryNormalized, titleNormalized); score > candidate.Score {
				candidate.Score = score
			}
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Exact != candidates[j].Exact {
			return candidates[i].Exact
		}
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
