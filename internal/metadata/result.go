package metadata

import "context"

// Snapshot is the metadata kept for a verified title. PosterURL is an opaque
// reference handed to whatever renders previews.
type Snapshot struct {
	TMDBID    int64  `json:"tmdb_id"`
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Overview  string `json:"overview,omitempty"`
	PosterURL string `json:"poster_url,omitempty"`
}

// Result is the outcome of a lookup that completed.
type Result struct {
	snapshot Snapshot
	found    bool
}

// Found wraps a matched snapshot.
func Found(s Snapshot) Result {
	return Result{snapshot: s, found: true}
}

// Absent reports that the source has no matching title.
func Absent() Result {
	return Result{}
}

// Snapshot returns the matched snapshot and whether there was a match.
func (r Result) Snapshot() (Snapshot, bool) {
	return r.snapshot, r.found
}

// Lookup resolves a title against a metadata source.
type Lookup interface {
	Lookup(ctx context.Context, title string) (Result, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, title string) (Result, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, title string) (Result, error) {
	return f(ctx, title)
}
