package syncer

import (
	"context"
	"sort"
	"strings"

	"anisync/internal/formatter"
	"anisync/internal/logging"
	"anisync/internal/notion"
	"anisync/internal/resolvecache"
	"anisync/internal/titles"
)

// UpdateKind names one field-update pass. The set is closed: each kind
// is a concrete pass, there is no dynamic registration.
type UpdateKind string

const (
	UpdateStudios UpdateKind = "studios"
	UpdateGenres  UpdateKind = "genres"
	UpdateCountry UpdateKind = "country"
	UpdateRomaji  UpdateKind = "romaji"
	UpdateSources UpdateKind = "sources"
	UpdateImages  UpdateKind = "images"
)

// AllUpdateKinds lists every pass in execution order.
func AllUpdateKinds() []UpdateKind {
	return []UpdateKind{UpdateStudios, UpdateGenres, UpdateCountry, UpdateRomaji, UpdateSources, UpdateImages}
}

// UpdateOptions controls an update run.
type UpdateOptions struct {
	Kinds  []UpdateKind
	Filter *titles.Filter
	DryRun bool
}

// KindResult reports one pass.
type KindResult struct {
	Kind    UpdateKind
	Checked int
	Changed int
	Failed  []FailedTitle
}

// UpdateSummary reports a whole update run.
type UpdateSummary struct {
	RunID   string
	Results []KindResult
	DryRun  bool
}

// Update runs the requested field-update passes over the catalog. Each
// pass is idempotent: it writes only fields that would actually change,
// and a second run right after finds nothing to do.
func (s *Syncer) Update(ctx context.Context, opts UpdateOptions) (UpdateSummary, error) {
	summary := UpdateSummary{RunID: s.runID, DryRun: opts.DryRun}
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = AllUpdateKinds()
	}

	catalog, err := loadCatalog(ctx, s.api, s.cfg.Notion.CatalogDBID)
	if err != nil {
		return summary, err
	}

	for _, kind := range kinds {
		result, err := s.runPass(ctx, kind, catalog, opts)
		if err != nil {
			return summary, err
		}
		summary.Results = append(summary.Results, result)
	}
	return summary, nil
}

func (s *Syncer) runPass(ctx context.Context, kind UpdateKind, catalog *catalogIndex, opts UpdateOptions) (KindResult, error) {
	result := KindResult{Kind: kind}
	logger := s.logger.With(logging.String(logging.FieldUpdater, string(kind)))

	for i := range catalog.pages {
		page := &catalog.pages[i]
		title := page.Title()
		if title == "" {
			continue
		}
		entry := titles.ParseLine(title)
		if !opts.Filter.Match(entry) {
			continue
		}
		s.reportProgress(i, len(catalog.pages), string(kind)+": "+title)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++

		changed, err := s.updateOne(ctx, kind, page, entry, opts.DryRun)
		if err != nil {
			result.Failed = append(result.Failed, FailedTitle{Title: title, Reason: err.Error()})
			logger.Warn("update failed",
				logging.String(logging.FieldTitle, title),
				logging.Error(err))
			continue
		}
		if changed {
			result.Changed++
		}
	}
	s.reportProgress(len(catalog.pages), len(catalog.pages), "")

	logger.Info("pass finished",
		logging.Int("checked", result.Checked),
		logging.Int("changed", result.Changed),
		logging.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *Syncer) updateOne(ctx context.Context, kind UpdateKind, page *notion.Page, entry titles.InputTitle, dryRun bool) (bool, error) {
	switch kind {
	case UpdateGenres:
		return s.mergeWatchedGenres(ctx, page, dryRun)
	case UpdateCountry:
		return s.fillCountryFromIcon(ctx, page, dryRun)
	case UpdateStudios, UpdateRomaji, UpdateSources, UpdateImages:
		return s.updateFromSource(ctx, kind, page, entry, dryRun)
	}
	return false, nil
}

// mergeWatchedGenres unions the watched-genre relation with the source
// genre relation. Existing links are never removed.
func (s *Syncer) mergeWatchedGenres(ctx context.Context, page *notion.Page, dryRun bool) (bool, error) {
	watched := page.Properties[s.cfg.Notion.WatchedRelation].Relation
	if len(watched) == 0 {
		return false, nil
	}
	source := page.Properties[s.cfg.Notion.GenresSource].Relation
	current := page.Properties[s.cfg.Notion.GenresTarget].Relation

	merged := make(map[string]struct{}, len(source)+len(current))
	for _, ref := range source {
		merged[ref.ID] = struct{}{}
	}
	currentSet := make(map[string]struct{}, len(current))
	for _, ref := range current {
		currentSet[ref.ID] = struct{}{}
		merged[ref.ID] = struct{}{}
	}
	if len(merged) == len(currentSet) {
		return false, nil
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if dryRun {
		return true, nil
	}
	_, err := s.api.UpdatePage(ctx, page.ID,
		notion.Properties{s.cfg.Notion.GenresTarget: notion.NewRelation(ids)}, nil, nil)
	return err == nil, err
}

// fillCountryFromIcon derives the Country select from the page's flag
// emoji icon. Pages without a flag icon or with Country already set are
// left alone.
func (s *Syncer) fillCountryFromIcon(ctx context.Context, page *notion.Page, dryRun bool) (bool, error) {
	if page.Icon == nil || page.Icon.Type != "emoji" {
		return false, nil
	}
	country := formatter.CountryFromFlag(page.Icon.Emoji)
	if country == "" {
		return false, nil
	}
	if page.Properties[formatter.PropCountry].Plain() == country {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	_, err := s.api.UpdatePage(ctx, page.ID,
		notion.Properties{formatter.PropCountry: notion.NewSelect(country)}, nil, nil)
	return err == nil, err
}

// updateFromSource handles the passes that need a fresh resolution:
// studios, romaji, sources and images. Titles that do not strictly
// resolve are skipped, never guessed.
func (s *Syncer) updateFromSource(ctx context.Context, kind UpdateKind, page *notion.Page, entry titles.InputTitle, dryRun bool) (bool, error) {
	resolved, err := s.resolveCached(ctx, entry, false)
	if err != nil {
		return false, err
	}
	if resolved.Outcome != resolvecache.OutcomeMatched || resolved.Media == nil {
		return false, nil
	}
	record := formatter.Build(*resolved.Media, entry)

	properties := notion.Properties{}
	var icon *notion.Icon
	var cover *notion.Cover

	switch kind {
	case UpdateStudios:
		want := strings.Join(record.Studios, ", ")
		if want != "" && page.Properties[formatter.PropStudios].Plain() != want {
			properties[formatter.PropStudios] = notion.NewRichText(want)
		}
	case UpdateRomaji:
		// Fill-only: an existing romaji title is kept even if it differs.
		if record.RomajiTitle != "" && page.Properties[formatter.PropRomajiTitle].Plain() == "" {
			properties[formatter.PropRomajiTitle] = notion.NewRichText(record.RomajiTitle)
		}
	case UpdateSources:
		if record.Source != "" && page.Properties[formatter.PropSource].Plain() != record.Source {
			properties[formatter.PropSource] = notion.NewSelect(record.Source)
		}
	case UpdateImages:
		if record.CoverURL != "" && coverPropertyURL(page) != record.CoverURL {
			if coverPropertyURL(page) == "" || s.cfg.Updaters.OverwritePropertyCover {
				properties[formatter.PropCover] = notion.NewExternalFiles("Cover", []string{record.CoverURL})
			}
		}
		if record.BannerURL != "" && headerCoverURL(page) != record.BannerURL {
			if !page.HasCover() || s.cfg.Updaters.OverwriteHeaderCover {
				cover = record.PageCover()
			}
		}
	}

	if len(properties) == 0 && icon == nil && cover == nil {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	_, err = s.api.UpdatePage(ctx, page.ID, properties, icon, cover)
	return err == nil, err
}

func coverPropertyURL(page *notion.Page) string {
	files := page.Properties[formatter.PropCover].Files
	if len(files) == 0 || files[0].External == nil {
		return ""
	}
	return files[0].External.URL
}

func headerCoverURL(page *notion.Page) string {
	if page.Cover == nil {
		return ""
	}
	return page.Cover.External.URL
}
