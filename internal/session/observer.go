package session

import (
	"filmlog/internal/archive"
	"filmlog/internal/metadata"
	"filmlog/internal/verification"
)

// Observer receives state changes a shell reflects in its display.
type Observer interface {
	// VerificationChanged reports a new gate state. snapshot is nil unless
	// state is Verified.
	VerificationChanged(state verification.State, snapshot *metadata.Snapshot)
	// Committed reports a record that was added to the archive. Staged fields
	// have already been cleared.
	Committed(id string, rec archive.Record)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) VerificationChanged(verification.State, *metadata.Snapshot) {}

func (NopObserver) Committed(string, archive.Record) {}
