// Package formatter turns AniList metadata into catalog records and
// Notion property payloads.
//
// A field the source did not provide is omitted from the payload
// entirely, never written as an empty value, so partial metadata can
// not erase data already in the catalog.
package formatter
