package lookupcache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"filmlog/internal/lookupcache"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func openStore(t *testing.T, c *clock, ttl time.Duration) *lookupcache.Store {
	t.Helper()
	store, err := lookupcache.Open(filepath.Join(t.TempDir(), "cache", "lookups.db"),
		lookupcache.WithTTL(ttl), lookupcache.WithClock(c.Now))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutGetFoldsKey(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	store := openStore(t, c, time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, lookupcache.Entry{Query: "Alien", TMDBID: 348, Title: "Alien", Year: 1979, PosterURL: "https://img/alien.jpg"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := store.Get(ctx, "  ALIEN ")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if entry.TMDBID != 348 || entry.Year != 1979 || entry.PosterURL != "https://img/alien.jpg" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if !entry.CachedAt.Equal(c.now) {
		t.Fatalf("cached_at = %v, want %v", entry.CachedAt, c.now)
	}
}

func TestGetMissAndExpiry(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	store := openStore(t, c, time.Hour)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "Heat"); err != nil || ok {
		t.Fatalf("expected miss, got %v, %v", ok, err)
	}
	if _, ok, err := store.Get(ctx, "   "); err != nil || ok {
		t.Fatalf("expected miss for blank title, got %v, %v", ok, err)
	}

	if err := store.Put(ctx, lookupcache.Entry{Query: "Heat", TMDBID: 949, Title: "Heat"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	c.now = c.now.Add(2 * time.Hour)
	if _, ok, err := store.Get(ctx, "Heat"); err != nil || ok {
		t.Fatalf("expected expired miss, got %v, %v", ok, err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("expired entry should stay stored, count = %d", n)
	}
}

func TestPutReplacesExisting(t *testing.T) {
	c := &clock{now: time.Now().UTC()}
	store := openStore(t, c, 0)
	ctx := context.Background()

	_ = store.Put(ctx, lookupcache.Entry{Query: "Ran", TMDBID: 1, Title: "Ran"})
	_ = store.Put(ctx, lookupcache.Entry{Query: "ran", TMDBID: 11645, Title: "Ran"})

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].TMDBID != 11645 {
		t.Fatalf("unexpected entries %#v", entries)
	}
}

func TestListRemoveClear(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	store := openStore(t, c, 0)
	ctx := context.Background()

	for i, title := range []string{"Alien", "Brazil", "Heat"} {
		c.now = c.now.Add(time.Duration(i) * time.Minute)
		if err := store.Put(ctx, lookupcache.Entry{Query: title, TMDBID: int64(i + 1), Title: title}); err != nil {
			t.Fatalf("Put %s: %v", title, err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 || entries[0].Title != "Heat" {
		t.Fatalf("expected newest first, got %#v", entries)
	}

	removed, err := store.Remove(ctx, "brazil")
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	removed, err = store.Remove(ctx, "brazil")
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v", removed, err)
	}

	n, err := store.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if count, _ := store.Count(ctx); count != 0 {
		t.Fatalf("count after clear = %d", count)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.db")
	ctx := context.Background()

	store, err := lookupcache.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Put(ctx, lookupcache.Entry{Query: "Alien", TMDBID: 348, Title: "Alien"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = store.Close()

	reopened, err := lookupcache.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Get(ctx, "alien"); err != nil || !ok {
		t.Fatalf("Get after reopen = %v, %v", ok, err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := lookupcache.Open(" "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
