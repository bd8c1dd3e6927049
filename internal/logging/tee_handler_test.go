package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewTeeHandlerCollapses(t *testing.T) {
	if _, ok := newTeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if h := newTeeHandler(nil, inner); h != inner {
		t.Fatal("expected a single handler to be returned unwrapped")
	}
}

func TestTeeHandlerRoutesByLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := newTeeHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With(slog.String("component", "test"))

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("tee should be enabled when any handler is")
	}

	logger.Debug("quiet detail")
	logger.Warn("loud problem", slog.String("title", "Alien"))

	if bytes.Contains(console.Bytes(), []byte("quiet detail")) {
		t.Fatal("console handler should not see debug records")
	}
	if !bytes.Contains(console.Bytes(), []byte("loud problem")) {
		t.Fatal("console handler should see warnings")
	}
	for _, want := range []string{"quiet detail", "loud problem", `"component":"test"`, `"title":"Alien"`} {
		if !bytes.Contains(file.Bytes(), []byte(want)) {
			t.Fatalf("file output missing %q: %s", want, file.String())
		}
	}
}

func TestTeeHandlerWithGroup(t *testing.T) {
	var a, b bytes.Buffer
	h := newTeeHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil))
	slog.New(h.WithGroup("lookup")).Info("grouped", slog.Int("tmdb_id", 348))

	for _, buf := range []*bytes.Buffer{&a, &b} {
		if !bytes.Contains(buf.Bytes(), []byte(`"lookup":{"tmdb_id":348}`)) {
			t.Fatalf("expected grouped attr, got %s", buf.String())
		}
	}
}
