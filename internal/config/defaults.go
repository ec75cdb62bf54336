package config

const (
	defaultInputFile     = "~/.local/share/anisync/anime_list.txt"
	defaultUnmatchedFile = "~/.local/share/anisync/unmatched_anime.txt"
	defaultCachePath     = "~/.cache/anisync/resolutions.db"
	defaultLogDir        = "~/.local/share/anisync/logs"

	defaultAniListBaseURL  = "https://graphql.anilist.co"
	defaultAniListPerPage  = 10
	defaultRequestInterval = 2200 // ms; ~27 requests per minute
	defaultMaxRetries      = 3
	defaultRetryDelay      = 2000 // ms
	defaultAniListTimeout  = 10   // seconds

	defaultNotionBaseURL   = "https://api.notion.com/v1"
	defaultNotionVersion   = "2022-06-28"
	defaultNotionRetries   = 3
	defaultNotionRetryWait = 1000 // ms
	defaultNotionTimeout   = 15   // seconds
	defaultWatchedRelation = "Anime Watched"
	defaultGenresSource    = "Genres"
	defaultGenresTarget    = "Genres (Anime Watched)"

	defaultSimilarityFloor = 0.60

	defaultVisionBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultVisionModel   = "gpt-4o"
	defaultVisionTimeout = 60 // seconds
	defaultVisionInput   = "~/.local/share/anisync/screenshots"
	defaultVisionOutput  = "~/.local/share/anisync/anime_titles.txt"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

const defaultVisionPrompt = "You will receive screenshots that may reference anime. " +
	"Extract the names of every anime referenced in each image. Titles may appear as text " +
	"or be visually implied. Rules: extract only anime titles; extract all titles when more " +
	"than one is present; remove duplicates, even across languages or formats; transliterate " +
	"Japanese titles into romaji; partial or fuzzy matches are acceptable if the anime is " +
	"recognizable. Output a plain text list of unique titles, one per line, with no " +
	"formatting, bullets, or numbering."

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputFile:     defaultInputFile,
			UnmatchedFile: defaultUnmatchedFile,
			CachePath:     defaultCachePath,
			LogDir:        defaultLogDir,
		},
		AniList: AniList{
			BaseURL:           defaultAniListBaseURL,
			PerPage:           defaultAniListPerPage,
			RequestIntervalMS: defaultRequestInterval,
			MaxRetries:        defaultMaxRetries,
			RetryDelayMS:      defaultRetryDelay,
			TimeoutSeconds:    defaultAniListTimeout,
		},
		Notion: Notion{
			BaseURL:         defaultNotionBaseURL,
			Version:         defaultNotionVersion,
			WatchedRelation: defaultWatchedRelation,
			GenresSource:    defaultGenresSource,
			GenresTarget:    defaultGenresTarget,
			MaxRetries:      defaultNotionRetries,
			RetryDelayMS:    defaultNotionRetryWait,
			TimeoutSeconds:  defaultNotionTimeout,
		},
		Matcher: Matcher{
			SimilarityFloor: defaultSimilarityFloor,
		},
		Updaters: Updaters{
			OverwriteHeaderCover:   true,
			OverwritePropertyCover: true,
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			Prompt:         defaultVisionPrompt,
			InputDir:       defaultVisionInput,
			OutputFile:     defaultVisionOutput,
			TimeoutSeconds: defaultVisionTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
