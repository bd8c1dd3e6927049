package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeArchive(); err != nil {
		return err
	}
	c.normalizeTMDB()
	if err := c.normalizeLookupCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeArchive() error {
	var err error
	if strings.TrimSpace(c.Archive.Path) == "" {
		c.Archive.Path = defaultArchivePath
	}
	if c.Archive.Path, err = expandPath(strings.TrimSpace(c.Archive.Path)); err != nil {
		return fmt.Errorf("archive.path: %w", err)
	}
	c.Archive.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Archive.DefaultFormat))
	switch c.Archive.DefaultFormat {
	case "":
		c.Archive.DefaultFormat = defaultArchiveFormat
	case "yml":
		c.Archive.DefaultFormat = "yaml"
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimSpace(c.TMDB.ImageBaseURL)
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.MatchThreshold == 0 {
		c.TMDB.MatchThreshold = defaultTMDBMatchThreshold
	}
}

func (c *Config) normalizeLookupCache() error {
	var err error
	if strings.TrimSpace(c.LookupCache.Path) == "" {
		c.LookupCache.Path = filepath.Join(defaultCacheDir(), defaultLookupCacheFile)
	}
	if c.LookupCache.Path, err = expandPath(strings.TrimSpace(c.LookupCache.Path)); err != nil {
		return fmt.Errorf("lookup_cache.path: %w", err)
	}
	if c.LookupCache.TTLHours == 0 {
		c.LookupCache.TTLHours = defaultLookupCacheTTLHours
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
