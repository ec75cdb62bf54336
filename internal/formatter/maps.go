package formatter

// formatNames maps AniList format enums to catalog display names.
// Unknown enums pass through unchanged.
var formatNames = map[string]string{
	"TV":       "TV",
	"TV_SHORT": "TV Short",
	"MOVIE":    "Movie",
	"OVA":      "OVA",
	"ONA":      "ONA",
	"SPECIAL":  "Special",
}

// sourceNames maps AniList source material enums to display names.
var sourceNames = map[string]string{
	"MANGA":              "Manga",
	"LIGHT_NOVEL":        "Light Novel",
	"VISUAL_NOVEL":       "Visual Novel",
	"WEB_NOVEL":          "Web Novel",
	"NOVEL":              "Novel",
	"ORIGINAL":           "Original",
	"VIDEO_GAME":         "Video Game",
	"GAME":               "Game",
	"MULTIMEDIA_PROJECT": "Multimedia Project",
	"DOUJINSHI":          "Doujinshi",
	"COMIC":              "Comic",
	"OTHER":              "Other",
}

var countryNames = map[string]string{
	"JP": "Japan",
	"KR": "South Korea",
	"CN": "China",
	"TW": "Taiwan",
	"US": "USA",
	"CA": "Canada",
	"GB": "United Kingdom",
	"FR": "France",
}

var countryFlags = map[string]string{
	"JP": "🇯🇵",
	"KR": "🇰🇷",
	"CN": "🇨🇳",
	"TW": "🇹🇼",
	"US": "🇺🇸",
	"CA": "🇨🇦",
	"GB": "🇬🇧",
	"FR": "🇫🇷",
}

// DefaultIcon is the page icon used when the country is unknown.
const DefaultIcon = "🌐"

// allowedGenres is the closed set of genres the catalog tracks; AniList
// genres outside the set are dropped.
var allowedGenres = map[string]struct{}{
	"Action":        {},
	"Adventure":     {},
	"Comedy":        {},
	"Drama":         {},
	"Ecchi":         {},
	"Fantasy":       {},
	"Horror":        {},
	"Mecha":         {},
	"Mystery":       {},
	"Music":         {},
	"Psychological": {},
	"Romance":       {},
	"Sci-Fi":        {},
	"Slice of Life": {},
	"Sports":        {},
	"Supernatural":  {},
	"Thriller":      {},
}

// FormatName maps an AniList format enum to its display name.
func FormatName(raw string) string {
	if name, ok := formatNames[raw]; ok {
		return name
	}
	return raw
}

// SourceName maps an AniList source enum to its display name. Unknown
// non-empty enums map to "Other"; empty stays empty.
func SourceName(raw string) string {
	if raw == "" {
		return ""
	}
	if name, ok := sourceNames[raw]; ok {
		return name
	}
	return "Other"
}

// CountryName maps an ISO country code to its catalog name, or "".
func CountryName(code string) string {
	return countryNames[code]
}

// CountryFlag maps an ISO country code to its flag emoji, or the
// default globe icon.
func CountryFlag(code string) string {
	if flag, ok := countryFlags[code]; ok {
		return flag
	}
	return DefaultIcon
}

// CountryFromFlag maps a flag emoji back to the catalog country name.
// Used when repairing pages whose icon is the only country signal.
func CountryFromFlag(emoji string) string {
	for code, flag := range countryFlags {
		if flag == emoji {
			return countryNames[code]
		}
	}
	return ""
}

// FilterGenres keeps only genres in the catalog's allowed set,
// preserving order and dropping duplicates.
func FilterGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	var kept []string
	for _, genre := range genres {
		if _, ok := allowedGenres[genre]; !ok {
			continue
		}
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		kept = append(kept, genre)
	}
	return kept
}
