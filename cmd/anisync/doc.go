// Command anisync synchronizes an anime watch list into a Notion
// catalog, resolving titles against AniList and keeping a local cache
// of resolution outcomes so repeated runs only retry what failed.
package main
