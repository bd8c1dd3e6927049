// Package metadata answers whether a film title exists and, when it does,
// returns a Snapshot with the details a shell shows next to the staged record.
//
// Lookups return a tagged Result: Found carries a Snapshot, Absent carries
// nothing. Errors are reserved for lookups that could not be answered, such
// as a network failure or a rejected API key, so callers can tell "no such
// film" apart from "ask again later". TMDB is the production source; Cached
// layers the SQLite lookup cache in front of any Lookup.
package metadata
