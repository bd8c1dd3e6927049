package metadata

import (
	"context"
	"log/slog"

	"filmlog/internal/logging"
	"filmlog/internal/lookupcache"
)

// Cache is the subset of the lookup cache used by Cached.
type Cache interface {
	Get(ctx context.Context, title string) (lookupcache.Entry, bool, error)
	Put(ctx context.Context, entry lookupcache.Entry) error
}

// Cached serves lookups from a cache and falls back to next on a miss. Only
// Found results are written back. Cache failures are logged and otherwise
// ignored.
type Cached struct {
	next   Lookup
	cache  Cache
	logger *slog.Logger
}

var _ Lookup = (*Cached)(nil)

// NewCached wraps next with cache. A nil cache returns a pass-through.
func NewCached(next Lookup, cache Cache, logger *slog.Logger) *Cached {
	return &Cached{
		next:   next,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "lookupcache"),
	}
}

// Lookup implements Lookup.
func (c *Cached) Lookup(ctx context.Context, title string) (Result, error) {
	if c.cache == nil {
		return c.next.Lookup(ctx, title)
	}
	logger := logging.WithContext(ctx, c.logger)

	entry, ok, err := c.cache.Get(ctx, title)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "lookup cache read failed", "lookup_cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the lookup cache database if this persists"),
			logging.String(logging.FieldImpact, "title is looked up online"))
	case ok:
		logger.Debug("lookup cache hit",
			logging.String(logging.FieldEventType, "lookup_cache_hit"),
			logging.String("query", title),
			logging.Int64("tmdb_id", entry.TMDBID))
		return Found(snapshotFromEntry(entry)), nil
	}

	result, err := c.next.Lookup(ctx, title)
	if err != nil {
		return Result{}, err
	}
	snap, found := result.Snapshot()
	if !found {
		return result, nil
	}
	if err := c.cache.Put(ctx, entryFromSnapshot(title, snap)); err != nil {
		logging.WarnWithContext(logger, "lookup cache write failed", "lookup_cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the lookup cache path"),
			logging.String(logging.FieldImpact, "next verification of this title goes online"))
	}
	return result, nil
}

func snapshotFromEntry(entry lookupcache.Entry) Snapshot {
	return Snapshot{
		TMDBID:    entry.TMDBID,
		Title:     entry.Title,
		Year:      entry.Year,
		Overview:  entry.Overview,
		PosterURL: entry.PosterURL,
	}
}

func entryFromSnapshot(query string, snap Snapshot) lookupcache.Entry {
	return lookupcache.Entry{
		Query:     query,
		TMDBID:    snap.TMDBID,
		Title:     snap.Title,
		Year:      snap.Year,
		Overview:  snap.Overview,
		PosterURL: snap.PosterURL,
	}
}
