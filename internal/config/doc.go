// Package config loads, normalizes, and validates squeeze configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// SQUEEZE_FFMPEG and SQUEEZE_FFPROBE. Command-line flags win over anything
// loaded here; the CLI consults Config only for values the user left unset.
package config
