// Package resolvecache persists title resolution outcomes in SQLite.
//
// The cache survives interrupted runs: every resolution is written as
// soon as it is known, so a rerun only re-queries titles that previously
// failed or were ambiguous. Successful entries are reused until the user
// forces a refresh.
package resolvecache
