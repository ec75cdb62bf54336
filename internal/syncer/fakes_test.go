package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"anisync/internal/anilist"
	"anisync/internal/notion"
	"anisync/internal/titles"
)

// filterFor builds a title filter selecting exactly the given titles.
func filterFor(t *testing.T, selected ...string) *titles.Filter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filter.txt")
	if err := os.WriteFile(path, []byte(strings.Join(selected, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write filter: %v", err)
	}
	filter, err := titles.LoadFilter(path, "")
	if err != nil {
		t.Fatalf("load filter: %v", err)
	}
	return filter
}

// fakeSearcher serves canned results per query and counts lookups.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]anilist.Media
	errs    map[string]error
	calls   map[string]int
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]anilist.Media),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (f *fakeSearcher) Search(_ context.Context, title string) ([]anilist.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[title]++
	if err, ok := f.errs[title]; ok {
		return nil, err
	}
	return f.results[title], nil
}

func (f *fakeSearcher) callCount(title string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[title]
}

// fakeNotion is an in-memory notion.API.
type fakeNotion struct {
	mu      sync.Mutex
	pages   map[string][]notion.Page // database id -> pages
	nextID  int
	creates int
	updates int
	// updatedProps records the property payload of each UpdatePage call
	// keyed by page id, latest wins.
	updatedProps map[string]notion.Properties
	failCreate   bool
}

func newFakeNotion() *fakeNotion {
	return &fakeNotion{
		pages:        make(map[string][]notion.Page),
		updatedProps: make(map[string]notion.Properties),
	}
}

var _ notion.API = (*fakeNotion)(nil)

func (f *fakeNotion) seed(databaseID string, pages ...notion.Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[databaseID] = append(f.pages[databaseID], pages...)
}

func (f *fakeNotion) AllPages(_ context.Context, databaseID string) ([]notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pages := make([]notion.Page, len(f.pages[databaseID]))
	copy(pages, f.pages[databaseID])
	return pages, nil
}

func (f *fakeNotion) CreatePage(_ context.Context, databaseID string, properties notion.Properties, icon *notion.Icon, cover *notion.Cover) (*notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, fmt.Errorf("create refused")
	}
	f.creates++
	f.nextID++
	page := notion.Page{
		ID:         fmt.Sprintf("page-%d", f.nextID),
		Icon:       icon,
		Cover:      cover,
		Properties: propertiesToValues(properties),
	}
	f.pages[databaseID] = append(f.pages[databaseID], page)
	return &page, nil
}

func (f *fakeNotion) UpdatePage(_ context.Context, pageID string, properties notion.Properties, icon *notion.Icon, cover *notion.Cover) (*notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.updatedProps[pageID] = properties
	return &notion.Page{ID: pageID, Icon: icon, Cover: cover}, nil
}

// propertiesToValues converts a write payload into the read-back shape
// so created pages can be indexed and inspected like real ones.
func propertiesToValues(properties notion.Properties) map[string]notion.PropertyValue {
	encoded, err := json.Marshal(properties)
	if err != nil {
		panic(err)
	}
	type writtenText struct {
		Text notion.TextContent `json:"text"`
	}
	var decoded map[string]struct {
		Title       []writtenText         `json:"title"`
		RichText    []writtenText         `json:"rich_text"`
		Select      *notion.SelectOption  `json:"select"`
		MultiSelect []notion.SelectOption `json:"multi_select"`
		Number      *float64              `json:"number"`
		Relation    []notion.RelationRef  `json:"relation"`
		Files       []notion.FileRef      `json:"files"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		panic(err)
	}

	spans := func(items []writtenText) []notion.RichTextSpan {
		out := make([]notion.RichTextSpan, 0, len(items))
		for _, item := range items {
			out = append(out, notion.RichTextSpan{PlainText: item.Text.Content})
		}
		return out
	}

	values := make(map[string]notion.PropertyValue, len(decoded))
	for name, raw := range decoded {
		value := notion.PropertyValue{}
		switch {
		case raw.Title != nil:
			value.Type = "title"
			value.Title = spans(raw.Title)
		case raw.RichText != nil:
			value.Type = "rich_text"
			value.RichText = spans(raw.RichText)
		case raw.Select != nil:
			value.Type = "select"
			value.Select = raw.Select
		case raw.MultiSelect != nil:
			value.Type = "multi_select"
			value.MultiSelect = raw.MultiSelect
		case raw.Number != nil:
			value.Type = "number"
			value.Number = raw.Number
		case raw.Relation != nil:
			value.Type = "relation"
			value.Relation = raw.Relation
		case raw.Files != nil:
			value.Type = "files"
			for _, file := range raw.Files {
				external := file.External
				value.Files = append(value.Files, notion.FileValue{
					Name:     file.Name,
					Type:     file.Type,
					External: &external,
				})
			}
		}
		values[name] = value
	}
	return values
}
