// Command filmlog records watched films into a YAML or JSON archive after
// confirming each title against TMDB.
//
// One-shot commands (add, verify, list, convert) cover scripting; shell runs
// an interactive session that stages, verifies, and commits many records
// before saving. Configuration is read from ~/.config/filmlog/config.toml
// unless --config points elsewhere.
package main
