// Package resolver turns an input title into a single AniList series,
// or reports that it safely cannot.
//
// Ranking prefers exact normalized matches, then prefix matches, then
// string similarity. A candidate is auto-selected only when it is both
// above the configured similarity floor and clearly ahead of the
// runner-up; anything less is ambiguous and left for the user to decide
// interactively. The resolver never guesses in batch mode.
package resolver
