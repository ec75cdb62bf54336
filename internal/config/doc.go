// Package config loads and validates the anisync configuration file.
//
// Configuration is a single value object constructed once at startup and
// passed into each component; nothing reads ambient global state after Load
// returns. Secrets may be supplied via environment variables instead of the
// file (ANISYNC_NOTION_TOKEN, ANISYNC_ANILIST_TOKEN, ANISYNC_VISION_API_KEY).
package config
