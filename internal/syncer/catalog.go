package syncer

import (
	"context"
	"fmt"

	"anisync/internal/formatter"
	"anisync/internal/notion"
	"anisync/internal/titles"
)

// catalogIndex holds the destination pages keyed by normalized title,
// loaded once per run so existence checks never hit the API.
type catalogIndex struct {
	pages   []notion.Page
	byTitle map[string]*notion.Page
}

func loadCatalog(ctx context.Context, api notion.API, databaseID string) (*catalogIndex, error) {
	pages, err := api.AllPages(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	index := &catalogIndex{
		pages:   pages,
		byTitle: make(map[string]*notion.Page, len(pages)),
	}
	for i := range pages {
		page := &pages[i]
		for _, name := range []string{
			page.Title(),
			page.Properties[formatter.PropRomajiTitle].Plain(),
		} {
			if name == "" {
				continue
			}
			key := titles.Normalize(name)
			if _, exists := index.byTitle[key]; !exists {
				index.byTitle[key] = page
			}
		}
	}
	return index, nil
}

// find returns the page matching any of the given names, or nil.
func (c *catalogIndex) find(names ...string) *notion.Page {
	for _, name := range names {
		if name == "" {
			continue
		}
		if page, ok := c.byTitle[titles.Normalize(name)]; ok {
			return page
		}
	}
	return nil
}

// genreIndex maps genre names to their pages in the genres database.
type genreIndex struct {
	byName map[string]string
}

func loadGenres(ctx context.Context, api notion.API, databaseID string) (*genreIndex, error) {
	if databaseID == "" {
		return &genreIndex{byName: map[string]string{}}, nil
	}
	pages, err := api.AllPages(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	index := &genreIndex{byName: make(map[string]string, len(pages))}
	for _, page := range pages {
		if name := page.Title(); name != "" {
			index.byName[titles.Normalize(name)] = page.ID
		}
	}
	return index, nil
}

// ids returns the page IDs for the given genre names, skipping genres
// the database does not know.
func (g *genreIndex) ids(names []string) []string {
	var ids []string
	for _, name := range names {
		if id, ok := g.byName[titles.Normalize(name)]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
