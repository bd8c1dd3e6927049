package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"filmlog/internal/archive"
	"filmlog/internal/config"
	"filmlog/internal/logging"
	"filmlog/internal/lookupcache"
	"filmlog/internal/metadata"
	"filmlog/internal/metadata/tmdb"
	"filmlog/internal/session"
	"filmlog/internal/verification"
)

type commandContext struct {
	configFlag  *string
	archiveFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
	sessionID  string

	cache *lookupcache.Store
}

func newCommandContext(configFlag, archiveFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		archiveFlag: archiveFlag,
		sessionID:   uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg, c.sessionID)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger.With(logging.String(logging.FieldComponent, "cli"))
	})
	return c.logger, c.loggerErr
}

// archivePath returns --archive when given, else the configured archive. A
// path without an extension gets the default format's, matching what a save
// writes, so every command reads the file the previous one wrote.
func (c *commandContext) archivePath() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	path := cfg.Archive.Path
	if c.archiveFlag != nil {
		if flag := strings.TrimSpace(*c.archiveFlag); flag != "" {
			if path, err = config.ExpandPath(flag); err != nil {
				return "", err
			}
		}
	}
	return c.resolveArchivePath(path)
}

// resolveArchivePath applies the configured default extension to path.
func (c *commandContext) resolveArchivePath(path string) (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	format, err := archive.ParseFormat(cfg.Archive.DefaultFormat)
	if err != nil {
		return "", err
	}
	return archive.ResolvePath(path, format), nil
}

func (c *commandContext) codec() (*archive.Codec, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	format, err := archive.ParseFormat(cfg.Archive.DefaultFormat)
	if err != nil {
		return nil, err
	}
	return archive.NewCodec(logger, archive.WithDefaultFormat(format)), nil
}

// lookup builds the TMDB lookup, fronted by the SQLite cache when enabled.
func (c *commandContext) lookup() (metadata.Lookup, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.TMDBReady(); err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		return nil, err
	}
	var lookup metadata.Lookup = metadata.NewTMDB(client, cfg.TMDB.ImageBaseURL, cfg.TMDB.MatchThreshold, logger)

	store, err := c.lookupCache()
	if err != nil {
		logging.WarnWithContext(logger, "lookup cache unavailable", "lookup_cache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check lookup_cache.path or disable the cache"),
			logging.String(logging.FieldImpact, "titles are looked up online every time"))
		return lookup, nil
	}
	if store != nil {
		lookup = metadata.NewCached(lookup, store, logger)
	}
	return lookup, nil
}

// lookupCache opens the cache once per run. It returns nil when disabled.
func (c *commandContext) lookupCache() (*lookupcache.Store, error) {
	if c.cache != nil {
		return c.cache, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.LookupCache.Enabled {
		return nil, nil
	}
	ttl := time.Duration(cfg.LookupCache.TTLHours) * time.Hour
	store, err := lookupcache.Open(cfg.LookupCache.Path, lookupcache.WithTTL(ttl))
	if err != nil {
		return nil, err
	}
	c.cache = store
	return store, nil
}

// newController wires a session controller for the configured lookup.
func (c *commandContext) newController(observer session.Observer) (*session.Controller, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	lookup, err := c.lookup()
	if err != nil {
		return nil, err
	}
	codec, err := c.codec()
	if err != nil {
		return nil, err
	}
	gate := verification.NewGate(lookup, cfg.Verification.StrictTitleMatch, logger)
	return session.NewController(gate,
		session.WithCodec(codec),
		session.WithObserver(observer),
		session.WithLogger(logger),
	), nil
}

// loadExisting loads path into ctrl. A missing file leaves the archive empty.
func loadExisting(ctrl *session.Controller, path string) (bool, error) {
	err := ctrl.LoadArchive(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (c *commandContext) close() error {
	if c.cache == nil {
		return nil
	}
	err := c.cache.Close()
	c.cache = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
