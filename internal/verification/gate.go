package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"filmlog/internal/logging"
	"filmlog/internal/metadata"
	"filmlog/internal/services"
	"filmlog/internal/textutil"
)

// ErrNotFound is returned when the lookup has no match for the title. The
// caller may edit the title and try again.
var ErrNotFound = errors.New("title not found")

// State is the verification status of the staged title.
type State int

const (
	Unverified State = iota
	Verified
)

func (s State) String() string {
	switch s {
	case Verified:
		return "verified"
	default:
		return "unverified"
	}
}

// Gate is owned by one session and is not safe for concurrent use.
type Gate struct {
	lookup   metadata.Lookup
	strict   bool
	logger   *slog.Logger
	state    State
	title    string
	snapshot metadata.Snapshot
}

// NewGate creates an unverified gate over lookup.
func NewGate(lookup metadata.Lookup, strict bool, logger *slog.Logger) *Gate {
	return &Gate{
		lookup: lookup,
		strict: strict,
		logger: logging.NewComponentLogger(logger, "verification"),
	}
}

// RequestVerification looks title up. On a match the gate becomes Verified
// and the snapshot is returned. An absent title yields ErrNotFound; a failed
// lookup returns its error. Both leave the gate Unverified.
func (g *Gate) RequestVerification(ctx context.Context, title string) (metadata.Snapshot, error) {
	if g.lookup == nil {
		return metadata.Snapshot{}, services.Wrap(services.ErrConfiguration, "verification", "request", "no metadata lookup configured", nil)
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithOperation(ctx, "verify")
	logger := logging.WithContext(ctx, g.logger)

	g.Reset()
	result, err := g.lookup.Lookup(ctx, title)
	if err != nil {
		logging.WarnWithContext(logger, "verification lookup failed", "verification_failed",
			logging.String("title", title),
			logging.Error(err),
			logging.Bool("retryable", services.Retryable(err)),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.String(logging.FieldImpact, "title stays unverified"))
		return metadata.Snapshot{}, fmt.Errorf("verify %q: %w", title, err)
	}

	snap, found := result.Snapshot()
	if !found {
		logger.Info("title not found",
			logging.String(logging.FieldEventType, "verification_not_found"),
			logging.String("title", title))
		return metadata.Snapshot{}, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(title))
	}

	g.state = Verified
	g.title = title
	g.snapshot = snap
	logger.Info("title verified",
		logging.String(logging.FieldEventType, "verification_succeeded"),
		logging.String("title", title),
		logging.Int64("tmdb_id", snap.TMDBID))
	return snap, nil
}

// MayCommit reports whether a record titled title may be committed.
func (g *Gate) MayCommit(title string) bool {
	if g.state != Verified {
		return false
	}
	if g.strict {
		return textutil.SameTitle(g.title, title)
	}
	return true
}

// Reset returns the gate to Unverified and drops the snapshot.
func (g *Gate) Reset() {
	g.state = Unverified
	g.title = ""
	g.snapshot = metadata.Snapshot{}
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// Snapshot returns the snapshot of the last successful verification.
func (g *Gate) Snapshot() (metadata.Snapshot, bool) {
	return g.snapshot, g.state == Verified
}
