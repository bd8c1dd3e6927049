// Package services defines shared utilities consumed by the external
// integrations (the TMDB lookup and its cache).
//
// Key responsibilities:
//   - Context helpers that stamp operation names and correlation identifiers
//     for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     transient service failure from a configuration problem.
package services
