// Package logging assembles structured slog loggers and formatting helpers used
// across filmlog.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, stamps every record with the CLI session identifier, and exposes
// context-aware helpers so session operations carry their operation name and
// correlation ID. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
