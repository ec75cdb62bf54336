// Package anilist queries the AniList GraphQL API for anime metadata.
// All requests go through a shared rate-limited client so the public
// API's per-minute budget is never exceeded.
package anilist
