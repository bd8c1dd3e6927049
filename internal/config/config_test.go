package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"filmlog/internal/config"
)

func TestLoadDefaultConfigUsesEnvTMDBKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantArchive := filepath.Join(tempHome, ".local", "share", "filmlog", "archive.json")
	if cfg.Archive.Path != wantArchive {
		t.Fatalf("unexpected archive path: got %q want %q", cfg.Archive.Path, wantArchive)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "filmlog", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.MatchThreshold != 0.8 {
		t.Fatalf("unexpected match threshold: %v", cfg.TMDB.MatchThreshold)
	}
	if !cfg.LookupCache.Enabled {
		t.Fatal("expected lookup cache enabled by default")
	}
	if cfg.Verification.StrictTitleMatch {
		t.Fatal("expected strict title match disabled by default")
	}
	if cfg.Archive.DefaultFormat != "json" {
		t.Fatalf("expected json default format, got %q", cfg.Archive.DefaultFormat)
	}
	if err := cfg.TMDBReady(); err != nil {
		t.Fatalf("TMDBReady returned error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Archive.Path), filepath.Dir(cfg.LookupCache.Path)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "filmlog.toml")

	type payload struct {
		Archive struct {
			Path          string `toml:"path"`
			DefaultFormat string `toml:"default_format"`
		} `toml:"archive"`
		TMDB struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"tmdb"`
		Verification struct {
			StrictTitleMatch bool `toml:"strict_title_match"`
		} `toml:"verification"`
	}
	custom := payload{}
	custom.Archive.Path = filepath.Join(tempDir, "films.yml")
	custom.Archive.DefaultFormat = "YML"
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.BaseURL = "https://example.com/tmdb"
	custom.Verification.StrictTitleMatch = true
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("expected TMDB key from file, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected TMDB base url override, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Archive.Path != custom.Archive.Path {
		t.Fatalf("expected archive path %q, got %q", custom.Archive.Path, cfg.Archive.Path)
	}
	if cfg.Archive.DefaultFormat != "yaml" {
		t.Fatalf("expected yml to normalize to yaml, got %q", cfg.Archive.DefaultFormat)
	}
	if !cfg.Verification.StrictTitleMatch {
		t.Fatal("expected strict title match from file")
	}
}

func TestFileAPIKeyWinsOverEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "filmlog.toml")
	if err := os.WriteFile(configPath, []byte("[tmdb]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TMDB_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.TMDB.APIKey)
	}
}

func TestTMDBReadyRequiresKey(t *testing.T) {
	cfg := config.Default()
	err := cfg.TMDBReady()
	if err == nil {
		t.Fatal("expected error without api key")
	}
	if !strings.Contains(err.Error(), "TMDB_API_KEY") {
		t.Fatalf("expected hint about TMDB_API_KEY, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Archive.Path, "filmlog") {
		t.Fatalf("expected archive path to contain filmlog, got %q", cfg.Archive.Path)
	}
	if cfg.TMDB.MatchThreshold != 0.8 {
		t.Fatalf("unexpected sample match threshold: %v", cfg.TMDB.MatchThreshold)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"threshold above one", func(c *config.Config) { c.TMDB.MatchThreshold = 1.5 }},
		{"threshold negative", func(c *config.Config) { c.TMDB.MatchThreshold = -0.1 }},
		{"unknown format", func(c *config.Config) { c.Archive.DefaultFormat = "xml" }},
		{"negative ttl", func(c *config.Config) { c.LookupCache.TTLHours = -1 }},
		{"unknown level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
