// Package config loads the copylist configuration file.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/copylist/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Empty fields in an existing file also fall back to defaults
//
// # TOML Format
//
//	api_bind = "127.0.0.1:7488"
//	log_dir = "~/.local/share/copylist/logs"
//	log_level = "info"      # debug, info, warn, error
//	log_format = "json"     # json or console
//	metrics = true          # expose /metrics on copylistd
//
// Every field is optional. Tilde expansion is performed for log_dir.
//
// Missing config files are not an error, so both binaries work out of the
// box against a daemon on the default address.
package config
