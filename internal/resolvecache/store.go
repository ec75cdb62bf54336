package resolvecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"anisync/internal/anilist"
)

// Outcome classifies how a resolution ended.
type Outcome string

const (
	// OutcomeMatched means a single candidate was selected.
	OutcomeMatched Outcome = "matched"
	// OutcomeNoMatch means the source returned nothing usable.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeAmbiguous means candidates existed but none was safe to
	// auto-select.
	OutcomeAmbiguous Outcome = "ambiguous"
)

// Entry is one cached resolution.
type Entry struct {
	NormalizedTitle string
	DisplayTitle    string
	Season          int
	Outcome         Outcome
	Media           *anilist.Media
	Detail          string
	UpdatedAt       time.Time
}

// Store is the SQLite-backed resolution cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path, creating
// parent directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Get returns the cached entry for a normalized title, or nil when absent.
func (s *Store) Get(ctx context.Context, normalizedTitle string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT normalized_title, display_title, season, outcome, media_json, detail, updated_at
         FROM resolutions WHERE normalized_title = ?`, normalizedTitle)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

// Put inserts or replaces the entry for its normalized title.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	if entry.NormalizedTitle == "" {
		return errors.New("entry normalized title required")
	}
	var mediaJSON sql.NullString
	if entry.Media != nil {
		encoded, err := json.Marshal(entry.Media)
		if err != nil {
			return fmt.Errorf("encode media: %w", err)
		}
		mediaJSON = sql.NullString{String: string(encoded), Valid: true}
	}
	var mediaID sql.NullInt64
	if entry.Media != nil {
		mediaID = sql.NullInt64{Int64: int64(entry.Media.ID), Valid: true}
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (normalized_title, display_title, season, outcome, media_id, media_json, detail, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(normalized_title) DO UPDATE SET
             display_title = excluded.display_title,
             season = excluded.season,
             outcome = excluded.outcome,
             media_id = excluded.media_id,
             media_json = excluded.media_json,
             detail = excluded.detail,
             updated_at = excluded.updated_at`,
		entry.NormalizedTitle,
		entry.DisplayTitle,
		entry.Season,
		string(entry.Outcome),
		mediaID,
		mediaJSON,
		nullableString(entry.Detail),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("store resolution for %q: %w", entry.DisplayTitle, err)
	}
	return nil
}

// Unresolved returns every entry whose outcome was not a match, in
// display title order. These are the titles a retry run re-queries.
func (s *Store) Unresolved(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT normalized_title, display_title, season, outcome, media_json, detail, updated_at
         FROM resolutions WHERE outcome != ? ORDER BY display_title`, string(OutcomeMatched))
	if err != nil {
		return nil, fmt.Errorf("query unresolved: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Delete removes the entry for a normalized title. Deleting a missing
// entry is not an error.
func (s *Store) Delete(ctx context.Context, normalizedTitle string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM resolutions WHERE normalized_title = ?", normalizedTitle); err != nil {
		return fmt.Errorf("delete resolution: %w", err)
	}
	return nil
}

// Counts reports how many entries exist per outcome.
func (s *Store) Counts(ctx context.Context) (map[Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT outcome, COUNT(1) FROM resolutions GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("count resolutions: %w", err)
	}
	defer rows.Close()

	counts := make(map[Outcome]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Outcome(outcome)] = count
	}
	return counts, rows.Err()
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		normalized string
		display    string
		season     int
		outcome    string
		mediaJSON  sql.NullString
		detail     sql.NullString
		updatedRaw string
	)
	if err := scanner.Scan(&normalized, &display, &season, &outcome, &mediaJSON, &detail, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan resolution: %w", err)
	}

	entry := &Entry{
		NormalizedTitle: normalized,
		DisplayTitle:    display,
		Season:          season,
		Outcome:         Outcome(outcome),
		Detail:          detail.String,
	}
	if mediaJSON.Valid && mediaJSON.String != "" {
		var media anilist.Media
		if err := json.Unmarshal([]byte(mediaJSON.String), &media); err != nil {
			return nil, fmt.Errorf("decode cached media for %q: %w", display, err)
		}
		entry.Media = &media
	}
	if parsed, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		entry.UpdatedAt = parsed
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
