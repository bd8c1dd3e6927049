package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"filmlog/internal/textutil"
)

// Entry is one cached lookup result.
type Entry struct {
	Key       string
	Query     string
	TMDBID    int64
	Title     string
	Year      int
	Overview  string
	PosterURL string
	CachedAt  time.Time
}

// Expired reports whether the entry is older than ttl at now. A zero ttl
// never expires.
func (e Entry) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(e.CachedAt) > ttl
}

// Store manages lookup persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long an entry counts as a hit.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the store clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Key normalizes a title into its cache key.
func Key(title string) string {
	return textutil.FoldTitle(title)
}

// Open initializes or connects to the cache database at path.
func Open(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("lookup cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
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

	store := &Store{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	if s == nil {
		return 0
	}
	return s.ttl
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const entryColumns = `lookup_key, query, tmdb_id, title, release_year, overview, poster_url, cached_at`

// Get returns the live entry for title. Expired entries are reported as misses.
func (s *Store) Get(ctx context.Context, title string) (Entry, bool, error) {
	key := Key(title)
	if key == "" {
		return Entry{}, false, nil
	}
	ctx = ensureContext(ctx)

	var entry Entry
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM lookups WHERE lookup_key = ?`, key)
		var scanErr error
		entry, scanErr = scanEntry(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get lookup %q: %w", key, err)
	}
	if entry.Expired(s.ttl, s.now()) {
		return entry, false, nil
	}
	return entry, true, nil
}

// Put stores or replaces the entry for its query. CachedAt defaults to now.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	entry.Key = Key(entry.Query)
	if entry.Key == "" {
		return errors.New("lookup query required")
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = s.now()
	}
	return s.execWithoutResultRetry(ctx, `INSERT INTO lookups (`+entryColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(lookup_key) DO UPDATE SET
            query = excluded.query,
            tmdb_id = excluded.tmdb_id,
            title = excluded.title,
            release_year = excluded.release_year,
            overview = excluded.overview,
            poster_url = excluded.poster_url,
            cached_at = excluded.cached_at`,
		entry.Key,
		strings.TrimSpace(entry.Query),
		entry.TMDBID,
		entry.Title,
		entry.Year,
		entry.Overview,
		entry.PosterURL,
		entry.CachedAt.UTC().Format(time.RFC3339Nano),
	)
}

// List returns every stored entry, newest first, including expired ones.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	var entries []Entry
	err := retryOnBusy(ctx, func() error {
		entries = entries[:0]
		rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM lookups ORDER BY cached_at DESC, lookup_key`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry for title and reports whether one existed.
func (s *Store) Remove(ctx context.Context, title string) (bool, error) {
	key := Key(title)
	if key == "" {
		return false, nil
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM lookups WHERE lookup_key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("remove lookup %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM lookups`)
	if err != nil {
		return 0, fmt.Errorf("clear lookups: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lookups`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count lookups: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry    Entry
		cachedAt string
	)
	if err := row.Scan(
		&entry.Key,
		&entry.Query,
		&entry.TMDBID,
		&entry.Title,
		&entry.Year,
		&entry.Overview,
		&entry.PosterURL,
		&cachedAt,
	); err != nil {
		return Entry{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, cachedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse cached_at %q: %w", cachedAt, err)
	}
	entry.CachedAt = ts
	return entry, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
