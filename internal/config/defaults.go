package config

import "path/filepath"

const (
	defaultConfigPath          = "~/.config/filmlog/config.toml"
	defaultLogDir              = "~/.local/share/filmlog/logs"
	defaultArchivePath         = "~/.local/share/filmlog/archive.json"
	defaultArchiveFormat       = "json"
	defaultTMDBLanguage        = "en-US"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL    = "https://image.tmdb.org/t/p/w342"
	defaultTMDBMatchThreshold  = 0.8
	defaultLookupCacheFile     = "lookups.db"
	defaultLookupCacheTTLHours = 720
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Archive: Archive{
			Path:          defaultArchivePath,
			DefaultFormat: defaultArchiveFormat,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			ImageBaseURL:   defaultTMDBImageBaseURL,
			Language:       defaultTMDBLanguage,
			MatchThreshold: defaultTMDBMatchThreshold,
		},
		LookupCache: LookupCache{
			Enabled:  true,
			Path:     filepath.Join(defaultCacheDir(), defaultLookupCacheFile),
			TTLHours: defaultLookupCacheTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
