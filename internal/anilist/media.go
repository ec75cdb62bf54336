package anilist

import "strings"

// MediaTitle holds the title variants AniList tracks for a series.
type MediaTitle struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
	Native  string `json:"native"`
}

// CoverImage holds the artwork URLs for a series.
type CoverImage struct {
	ExtraLarge string `json:"extraLarge"`
	Large      string `json:"large"`
}

// URL returns the best available cover artwork, preferring the largest
// size. Some records carry only the smaller variant.
func (c CoverImage) URL() string {
	if c.ExtraLarge != "" {
		return c.ExtraLarge
	}
	return c.Large
}

// FuzzyDate is AniList's partial date representation.
type FuzzyDate struct {
	Year int `json:"year"`
}

// StudioNode is a single studio attached to a series. Producers carry
// isAnimationStudio=false and are excluded from the catalog.
type StudioNode struct {
	Name              string `json:"name"`
	IsAnimationStudio bool   `json:"isAnimationStudio"`
}

// StudioEdge wraps a studio node in AniList's edge list shape.
type StudioEdge struct {
	Node StudioNode `json:"node"`
}

// Studios is the edge list of studios for a series.
type Studios struct {
	Edges []StudioEdge `json:"edges"`
}

// Media is one AniList series record with the fields the catalog uses.
type Media struct {
	ID              int        `json:"id"`
	Title           MediaTitle `json:"title"`
	Synonyms        []string   `json:"synonyms"`
	Format          string     `json:"format"`
	Status          string     `json:"status"`
	Source          string     `json:"source"`
	CountryOfOrigin string     `json:"countryOfOrigin"`
	Episodes        int        `json:"episodes"`
	Genres          []string   `json:"genres"`
	CoverImage      CoverImage `json:"coverImage"`
	BannerImage     string     `json:"bannerImage"`
	StartDate       FuzzyDate  `json:"startDate"`
	Studios         Studios    `json:"studios"`
	SiteURL         string     `json:"siteUrl"`
}

// AllTitles returns every name the series is known by: english, romaji,
// then synonyms, with blanks dropped.
func (m Media) AllTitles() []string {
	titles := make([]string, 0, 2+len(m.Synonyms))
	for _, title := range []string{m.Title.English, m.Title.Romaji} {
		if strings.TrimSpace(title) != "" {
			titles = append(titles, title)
		}
	}
	for _, synonym := range m.Synonyms {
		if strings.TrimSpace(synonym) != "" {
			titles = append(titles, synonym)
		}
	}
	return titles
}

// PreferredTitle returns the best display name: english first, then the
// first ASCII-only synonym, then romaji, then the fallback.
func (m Media) PreferredTitle(fallback string) string {
	if title := strings.TrimSpace(m.Title.English); title != "" {
		return title
	}
	for _, synonym := range m.Synonyms {
		synonym = strings.TrimSpace(synonym)
		if synonym != "" && isASCII(synonym) {
			return synonym
		}
	}
	if title := strings.TrimSpace(m.Title.Romaji); title != "" {
		return title
	}
	return fallback
}

// AnimationStudios returns the deduplicated animation studio names in
// edge order, skipping producer entries.
func (m Media) AnimationStudios() []string {
	seen := make(map[string]struct{}, len(m.Studios.Edges))
	var studios []string
	for _, edge := range m.Studios.Edges {
		name := strings.TrimSpace(edge.Node.Name)
		if name == "" || !edge.Node.IsAnimationStudio {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		studios = append(studios, name)
	}
	return studios
}

// Year returns the premiere year, or 0 when AniList has none.
func (m Media) Year() int {
	return m.StartDate.Year
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
