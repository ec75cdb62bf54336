package formatter

import (
	"sort"
	"strings"

	"anisync/internal/anilist"
	"anisync/internal/notion"
	"anisync/internal/titles"
)

// Property names in the catalog database.
const (
	PropEnglishTitle    = "English Title"
	PropRomajiTitle     = "Romaji Title"
	PropSource          = "Source"
	PropCover           = "Cover"
	PropCountry         = "Country"
	PropFormat          = "Format"
	PropDebutYear       = "Debut Year"
	PropStudios         = "Studios"
	PropGenres          = "Genres"
	PropWatchedSeasons  = "Watched Seasons"
	PropWatchedEpisodes = "Watched Episodes"
)

// Record is the normalized catalog entry derived from one resolved
// series. Empty string and zero fields mean the source had no value.
type Record struct {
	EnglishTitle string
	RomajiTitle  string
	Source       string
	CoverURL     string
	BannerURL    string
	Country      string
	Format       string
	DebutYear    int
	Studios      []string
	Genres       []string
	IconEmoji    string
	// WatchedSeasons is the season count from the input marker; 1 when
	// the input carried no marker.
	WatchedSeasons int
	// TrackProgress is false for one-shot formats (movies, specials)
	// where season and episode counters make no sense.
	TrackProgress bool
}

// Build derives a Record from resolved metadata and the input entry it
// was resolved for.
func Build(media anilist.Media, input titles.InputTitle) Record {
	format := FormatName(media.Format)

	studios := media.AnimationStudios()
	sort.Strings(studios)

	seasons := input.Season
	if seasons <= 0 {
		seasons = 1
	}

	return Record{
		EnglishTitle:   media.PreferredTitle(input.Display),
		RomajiTitle:    strings.TrimSpace(media.Title.Romaji),
		Source:         SourceName(media.Source),
		CoverURL:       media.CoverImage.URL(),
		BannerURL:      media.BannerImage,
		Country:        CountryName(media.CountryOfOrigin),
		Format:         format,
		DebutYear:      media.Year(),
		Studios:        studios,
		Genres:         FilterGenres(media.Genres),
		IconEmoji:      CountryFlag(media.CountryOfOrigin),
		WatchedSeasons: seasons,
		TrackProgress:  format != "Movie" && format != "Special",
	}
}

// Properties converts the record into a Notion property payload.
// genrePageIDs are the relation targets for the record's genres; the
// relation is omitted when empty so an unsynced genre database never
// clears existing links. Every absent field is left out of the payload.
func (r Record) Properties(genrePageIDs []string) notion.Properties {
	properties := notion.Properties{
		PropEnglishTitle: notion.NewTitle(r.EnglishTitle),
	}
	if r.RomajiTitle != "" {
		properties[PropRomajiTitle] = notion.NewRichText(r.RomajiTitle)
	}
	if r.Source != "" {
		properties[PropSource] = notion.NewSelect(r.Source)
	}
	if r.CoverURL != "" {
		properties[PropCover] = notion.NewExternalFiles("Cover", []string{r.CoverURL})
	}
	if r.Country != "" {
		properties[PropCountry] = notion.NewSelect(r.Country)
	}
	if r.Format != "" {
		properties[PropFormat] = notion.NewSelect(r.Format)
	}
	if r.DebutYear > 0 {
		properties[PropDebutYear] = notion.NewNumber(float64(r.DebutYear))
	}
	if len(r.Studios) > 0 {
		properties[PropStudios] = notion.NewRichText(strings.Join(r.Studios, ", "))
	}
	if len(genrePageIDs) > 0 {
		properties[PropGenres] = notion.NewRelation(genrePageIDs)
	}
	if r.TrackProgress {
		properties[PropWatchedSeasons] = notion.NewNumber(float64(r.WatchedSeasons))
		properties[PropWatchedEpisodes] = notion.NewNumber(0)
	}
	return properties
}

// Icon returns the page icon for the record.
func (r Record) Icon() *notion.Icon {
	return notion.NewEmojiIcon(r.IconEmoji)
}

// PageCover returns the page header cover, or nil when the source had
// no banner.
func (r Record) PageCover() *notion.Cover {
	return notion.NewExternalCover(r.BannerURL)
}
