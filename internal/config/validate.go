package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLookupCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateArchive() error {
	switch c.Archive.DefaultFormat {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("archive.default_format must be json or yaml, got %q", c.Archive.DefaultFormat)
	}
}

func (c *Config) validateTMDB() error {
	if c.TMDB.MatchThreshold <= 0 || c.TMDB.MatchThreshold > 1 {
		return errors.New("tmdb.match_threshold must be greater than 0 and at most 1")
	}
	return nil
}

func (c *Config) validateLookupCache() error {
	if !c.LookupCache.Enabled {
		return nil
	}
	if c.LookupCache.TTLHours < 0 {
		return errors.New("lookup_cache.ttl_hours must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
