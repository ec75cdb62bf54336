// Package syncer orchestrates catalog synchronization: resolving input
// titles through the cache, creating or updating destination pages, and
// running the standalone field-update passes.
//
// Every run is idempotent. Existing pages are skipped unless the caller
// forces an overwrite, per-title failures never abort the batch, and a
// dry run reports what would change without touching the destination.
package syncer
