package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"filmlog/internal/archive"
	"filmlog/internal/metadata"
	"filmlog/internal/session"
	"filmlog/internal/verification"
)

type scriptedLookup struct {
	results []metadata.Result
}

func (l *scriptedLookup) Lookup(context.Context, string) (metadata.Result, error) {
	if len(l.results) == 0 {
		return metadata.Absent(), nil
	}
	next := l.results[0]
	l.results = l.results[1:]
	return next, nil
}

func alwaysFound() metadata.Lookup {
	return metadata.LookupFunc(func(_ context.Context, title string) (metadata.Result, error) {
		return metadata.Found(metadata.Snapshot{TMDBID: 1, Title: title, PosterURL: "https://img/" + title}), nil
	})
}

type recordingObserver struct {
	states    []verification.State
	committed []string
}

func (o *recordingObserver) VerificationChanged(state verification.State, _ *metadata.Snapshot) {
	o.states = append(o.states, state)
}

func (o *recordingObserver) Committed(id string, _ archive.Record) {
	o.committed = append(o.committed, id)
}

func newController(lookup metadata.Lookup, strict bool, opts ...session.Option) *session.Controller {
	validator := archive.NewValidator(archive.WithClock(func() time.Time {
		return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	}))
	opts = append([]session.Option{session.WithValidator(validator)}, opts...)
	return session.NewController(verification.NewGate(lookup, strict, nil), opts...)
}

func alienFields() session.Fields {
	return session.Fields{Title: "Alien", Day: "5", Month: "6", Year: "1979", SeenInTheater: true}
}

func TestCommitWithoutVerificationFails(t *testing.T) {
	c := newController(alwaysFound(), false)
	c.Stage(alienFields())

	_, err := c.Commit()
	if !errors.Is(err, session.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
	if c.Archive().Size() != 0 {
		t.Fatalf("archive size = %d, want 0", c.Archive().Size())
	}
	if c.Staged() != alienFields() {
		t.Fatal("staged fields should be retained")
	}
}

func TestVerifyThenCommit(t *testing.T) {
	obs := &recordingObserver{}
	c := newController(alwaysFound(), false, session.WithObserver(obs))
	c.Stage(alienFields())

	snap, err := c.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if snap.PosterURL != "https://img/Alien" {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
	if c.VerificationState() != verification.Verified {
		t.Fatal("expected verified state")
	}

	id, err := c.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if id != "1" || c.Archive().Size() != 1 {
		t.Fatalf("id = %q, size = %d", id, c.Archive().Size())
	}
	rec, _ := c.Archive().Get("1")
	want := archive.Record{Title: "Alien", Day: 5, Month: 6, Year: 1979, SeenInTheater: true}
	if rec != want {
		t.Fatalf("record = %+v, want %+v", rec, want)
	}
	if c.VerificationState() != verification.Unverified {
		t.Fatal("commit should reset verification")
	}
	if c.Staged() != (session.Fields{}) {
		t.Fatalf("staged fields not cleared: %+v", c.Staged())
	}
	if len(obs.committed) != 1 || obs.committed[0] != "1" {
		t.Fatalf("observer commits = %v", obs.committed)
	}
	if last := obs.states[len(obs.states)-1]; last != verification.Unverified {
		t.Fatalf("last observed state = %v", last)
	}
}

func TestAbsentThenFoundScenario(t *testing.T) {
	lookup := &scriptedLookup{results: []metadata.Result{
		metadata.Absent(),
		metadata.Found(metadata.Snapshot{TMDBID: 348, Title: "Alien"}),
	}}
	c := newController(lookup, false)
	c.Stage(alienFields())

	if _, err := c.Verify(context.Background()); !errors.Is(err, verification.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if c.VerificationState() != verification.Unverified {
		t.Fatal("expected unverified after absent lookup")
	}
	if _, err := c.Commit(); !errors.Is(err, session.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}

	c.Stage(alienFields())
	if _, err := c.Verify(context.Background()); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	id, err := c.Commit()
	if err != nil || id != "1" || c.Archive().Size() != 1 {
		t.Fatalf("Commit = %q, %v; size %d", id, err, c.Archive().Size())
	}
}

func TestCommitValidationFailureKeepsState(t *testing.T) {
	c := newController(alwaysFound(), false)
	fields := alienFields()
	fields.Day = "DD"
	c.Stage(fields)
	if _, err := c.Verify(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := c.Commit()
	if !errors.Is(err, archive.ErrMissingOrInvalidDate) {
		t.Fatalf("expected ErrMissingOrInvalidDate, got %v", err)
	}
	if c.Archive().Size() != 0 || c.Staged() != fields {
		t.Fatal("failed commit must not change the archive or staged fields")
	}
	if c.VerificationState() != verification.Verified {
		t.Fatal("validation failure should keep verification")
	}

	fields.Day = "5"
	c.Stage(fields)
	if _, err := c.Commit(); err != nil {
		t.Fatalf("Commit after fixing the date: %v", err)
	}
}

func TestDuplicateRecordsGetDistinctIdentifiers(t *testing.T) {
	c := newController(alwaysFound(), false)
	var ids []string
	for range 2 {
		c.Stage(alienFields())
		if _, err := c.Verify(context.Background()); err != nil {
			t.Fatal(err)
		}
		id, err := c.Commit()
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	if ids[0] != "1" || ids[1] != "2" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestStageTitleChangeResetsVerification(t *testing.T) {
	obs := &recordingObserver{}
	c := newController(alwaysFound(), false, session.WithObserver(obs))
	c.Stage(alienFields())
	if _, err := c.Verify(context.Background()); err != nil {
		t.Fatal(err)
	}

	fields := alienFields()
	fields.Year = "1980"
	c.Stage(fields)
	if c.VerificationState() != verification.Verified {
		t.Fatal("changing the date should keep verification")
	}

	fields.Title = "Aliens"
	c.Stage(fields)
	if c.VerificationState() != verification.Unverified {
		t.Fatal("changing the title should reset verification")
	}
	if _, err := c.Commit(); !errors.Is(err, session.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
}

func TestLoadFailureKeepsArchive(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`["Alien"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newController(alwaysFound(), false)
	c.Stage(alienFields())
	if _, err := c.Verify(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := c.LoadArchive(bad); !errors.Is(err, archive.ErrCodec) {
		t.Fatalf("expected ErrCodec, got %v", err)
	}
	if c.Archive().Size() != 1 {
		t.Fatal("failed load must keep the current archive")
	}
}

func TestSaveThenLoadContinuesNumbering(t *testing.T) {
	dir := t.TempDir()
	c := newController(alwaysFound(), false)
	c.Stage(alienFields())
	if _, err := c.Verify(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Commit(); err != nil {
		t.Fatal(err)
	}

	path, err := c.SaveArchive(context.Background(), filepath.Join(dir, "films"))
	if err != nil {
		t.Fatalf("SaveArchive: %v", err)
	}
	if filepath.Ext(path) != ".json" {
		t.Fatalf("saved path = %q", path)
	}

	next := newController(alwaysFound(), false)
	if err := next.LoadArchive(path); err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	next.Stage(session.Fields{Title: "Heat", Day: "15", Month: "12", Year: "1995"})
	if _, err := next.Verify(context.Background()); err != nil {
		t.Fatal(err)
	}
	id, err := next.Commit()
	if err != nil || id != "2" {
		t.Fatalf("Commit = %q, %v", id, err)
	}
}

func TestStrictModeCommitsVerifiedTitle(t *testing.T) {
	c := newController(alwaysFound(), true)
	c.Stage(alienFields())
	if _, err := c.Verify(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Commit(); err != nil {
		t.Fatalf("strict commit of the verified title: %v", err)
	}
}
