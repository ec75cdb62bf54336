package syncer

import (
	"context"
	"errors"
	"testing"

	"anisync/internal/anilist"
	"anisync/internal/config"
	"anisync/internal/formatter"
	"anisync/internal/notion"
	"anisync/internal/resolvecache"
	"anisync/internal/resolver"
	"anisync/internal/testsupport"
	"anisync/internal/titles"
)

func frierenMedia() anilist.Media {
	return anilist.Media{
		ID: 154587,
		Title: anilist.MediaTitle{
			English: "Frieren: Beyond Journey's End",
			Romaji:  "Sousou no Frieren",
		},
		Format:          "TV",
		Source:          "MANGA",
		CountryOfOrigin: "JP",
		Genres:          []string{"Adventure", "Drama", "Fantasy"},
		CoverImage:      anilist.CoverImage{ExtraLarge: "https://img/frieren-xl.png"},
		BannerImage:     "https://img/frieren-banner.png",
		StartDate:       anilist.FuzzyDate{Year: 2023},
		Studios: anilist.Studios{Edges: []anilist.StudioEdge{
			{Node: anilist.StudioNode{Name: "Madhouse", IsAnimationStudio: true}},
		}},
	}
}

func genrePage(id, name string) notion.Page {
	return notion.Page{
		ID: id,
		Properties: map[string]notion.PropertyValue{
			"Name": {Type: "title", Title: []notion.RichTextSpan{{PlainText: name}}},
		},
	}
}

func catalogPage(id, english string, extra map[string]notion.PropertyValue) notion.Page {
	properties := map[string]notion.PropertyValue{
		formatter.PropEnglishTitle: {Type: "title", Title: []notion.RichTextSpan{{PlainText: english}}},
	}
	for name, value := range extra {
		properties[name] = value
	}
	return notion.Page{ID: id, Properties: properties}
}

type testEnv struct {
	cfg      *config.Config
	searcher *fakeSearcher
	api      *fakeNotion
	cache    *resolvecache.Store
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cache, err := resolvecache.Open(cfg.Paths.CachePath)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return &testEnv{
		cfg:      cfg,
		searcher: newFakeSearcher(),
		api:      newFakeNotion(),
		cache:    cache,
	}
}

func (e *testEnv) syncer(opts ...Option) *Syncer {
	res := resolver.New(e.searcher, e.cfg.Matcher.SimilarityFloor, nil)
	return New(e.cfg, res, e.cache, e.api, nil, opts...)
}

func TestRunCreatesPageWithFullPayload(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren"] = []anilist.Media{frierenMedia()}
	env.api.seed("genres-db", genrePage("g-adv", "Adventure"), genrePage("g-dra", "Drama"))

	summary, err := env.syncer().Run(context.Background(),
		[]titles.InputTitle{titles.ParseLine("Frieren")}, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Created != 1 || summary.Updated != 0 || summary.Skipped != 0 || len(summary.Failed) != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	pages := env.api.pages["catalog-db"]
	if len(pages) != 1 {
		t.Fatalf("catalog has %d pages", len(pages))
	}
	page := pages[0]
	if got := page.Title(); got != "Frieren: Beyond Journey's End" {
		t.Errorf("title = %q", got)
	}
	if got := page.Properties[formatter.PropRomajiTitle].Plain(); got != "Sousou no Frieren" {
		t.Errorf("romaji = %q", got)
	}
	if got := page.Properties[formatter.PropSource].Plain(); got != "Manga" {
		t.Errorf("source = %q", got)
	}
	if got := page.Properties[formatter.PropCountry].Plain(); got != "Japan" {
		t.Errorf("country = %q", got)
	}
	if got := page.Properties[formatter.PropStudios].Plain(); got != "Madhouse" {
		t.Errorf("studios = %q", got)
	}
	if year := page.Properties[formatter.PropDebutYear].Number; year == nil || *year != 2023 {
		t.Errorf("debut year = %v", year)
	}
	relation := page.Properties[formatter.PropGenres].Relation
	if len(relation) != 2 {
		t.Errorf("genre relation = %v", relation)
	}
	if page.Icon == nil || page.Icon.Emoji != "🇯🇵" {
		t.Errorf("icon = %+v", page.Icon)
	}
	if page.Cover == nil || page.Cover.External.URL != "https://img/frieren-banner.png" {
		t.Errorf("cover = %+v", page.Cover)
	}
	if seasons := page.Properties[formatter.PropWatchedSeasons].Number; seasons == nil || *seasons != 1 {
		t.Errorf("watched seasons = %v", seasons)
	}
}

func TestRunSkipsExistingWithoutForce(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren"] = []anilist.Media{frierenMedia()}
	env.api.seed("catalog-db", catalogPage("p1", "Frieren: Beyond Journey's End", nil))

	summary, err := env.syncer().Run(context.Background(),
		[]titles.InputTitle{titles.ParseLine("Frieren")}, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 1 || summary.Created != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if env.api.creates != 0 || env.api.updates != 0 {
		t.Errorf("creates=%d updates=%d, want none", env.api.creates, env.api.updates)
	}
}

func TestRunCollapsesAlternateSpellingsOfNewPage(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren: Beyond Journey's End"] = []anilist.Media{frierenMedia()}
	env.searcher.results["Sousou no Frieren"] = []anilist.Media{frierenMedia()}

	summary, err := env.syncer().Run(context.Background(), []titles.InputTitle{
		titles.ParseLine("Frieren: Beyond Journey's End"),
		titles.ParseLine("Sousou no Frieren"),
	}, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Created != 1 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if got := len(env.api.pages["catalog-db"]); got != 1 {
		t.Errorf("catalog has %d pages, want the spellings collapsed into 1", got)
	}
}

func TestRunForceUpdatesExisting(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren"] = []anilist.Media{frierenMedia()}
	env.api.seed("catalog-db", catalogPage("p1", "Frieren: Beyond Journey's End", nil))

	summary, err := env.syncer().Run(context.Background(),
		[]titles.InputTitle{titles.ParseLine("Frieren")}, RunOptions{Force: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if env.api.updates != 1 {
		t.Errorf("updates = %d", env.api.updates)
	}
	if _, ok := env.api.updatedProps["p1"]; !ok {
		t.Error("p1 should have been updated")
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren"] = []anilist.Media{frierenMedia()}

	summary, err := env.syncer().Run(context.Background(),
		[]titles.InputTitle{titles.ParseLine("Frieren")}, RunOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Created != 1 || !summary.DryRun {
		t.Fatalf("summary = %+v", summary)
	}
	if env.api.creates != 0 || env.api.updates != 0 {
		t.Error("dry run must not write")
	}
}

func TestRunIsolatesPerTitleFailures(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren"] = []anilist.Media{frierenMedia()}
	env.searcher.errs["Broken Show"] = errors.New("network down")

	summary, err := env.syncer().Run(context.Background(), []titles.InputTitle{
		titles.ParseLine("Broken Show"),
		titles.ParseLine("Frieren"),
	}, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Created != 1 {
		t.Errorf("created = %d, want 1", summary.Created)
	}
	if len(summary.Failed) != 1 || summary.Failed[0].Title != "Broken Show" {
		t.Errorf("failed = %+v", summary.Failed)
	}
}

func TestRunAmbiguousBatchNeverGuesses(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Hellsing"] = []anilist.Media{
		{ID: 1, Title: anilist.MediaTitle{English: "Hellsing"}},
		{ID: 2, Title: anilist.MediaTitle{Romaji: "Hellsing"}},
	}

	summary, err := env.syncer().Run(context.Background(),
		[]titles.InputTitle{titles.ParseLine("Hellsing")}, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Failed) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if env.api.creates != 0 {
		t.Error("ambiguous title must not create a page")
	}

	cached, err := env.cache.Get(context.Background(), "hellsing")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if cached == nil || cached.Outcome != resolvecache.OutcomeAmbiguous {
		t.Errorf("cached = %+v", cached)
	}
}

type pickFirst struct{}

func (pickFirst) Choose(_ titles.InputTitle, candidates []resolver.Candidate) (*anilist.Media, error) {
	media := candidates[0].Media
	return &media, nil
}

func TestRunChooserResolvesAmbiguity(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Hellsing"] = []anilist.Media{
		{ID: 1, Title: anilist.MediaTitle{English: "Hellsing"}},
		{ID: 2, Title: anilist.MediaTitle{Romaji: "Hellsing"}},
	}

	summary, err := env.syncer(WithChooser(pickFirst{})).Run(context.Background(),
		[]titles.InputTitle{titles.ParseLine("Hellsing")}, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Created != 1 || len(summary.Failed) != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunSecondInvocationUsesCache(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren"] = []anilist.Media{frierenMedia()}

	ctx := context.Background()
	if _, err := env.syncer().Run(ctx, []titles.InputTitle{titles.ParseLine("Frieren")}, RunOptions{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	summary, err := env.syncer().Run(ctx, []titles.InputTitle{titles.ParseLine("Frieren")}, RunOptions{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if env.searcher.callCount("Frieren") != 1 {
		t.Errorf("search called %d times, want 1", env.searcher.callCount("Frieren"))
	}
	// Second run finds the page created by the first and skips it.
	if summary.Skipped != 1 || summary.Created != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRunRefreshBypassesCache(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.results["Frieren"] = []anilist.Media{frierenMedia()}

	ctx := context.Background()
	entries := []titles.InputTitle{titles.ParseLine("Frieren")}
	if _, err := env.syncer().Run(ctx, entries, RunOptions{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := env.syncer().Run(ctx, entries, RunOptions{Refresh: true, Force: true}); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if env.searcher.callCount("Frieren") != 2 {
		t.Errorf("search called %d times, want 2", env.searcher.callCount("Frieren"))
	}
}

func TestRunLookupErrorDoesNotPoisonCache(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.searcher.errs["Frieren"] = errors.New("temporarily down")

	ctx := context.Background()
	if _, err := env.syncer().Run(ctx, []titles.InputTitle{titles.ParseLine("Frieren")}, RunOptions{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	cached, err := env.cache.Get(ctx, "frieren")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if cached != nil {
		t.Errorf("lookup failure must not be cached, got %+v", cached)
	}
}
