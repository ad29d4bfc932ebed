// Package config loads snooze client settings.
//
// # Resolution Order
//
// Load builds a Config in three layers:
//
//  1. The TOML file at the given path, or ~/.config/snooze/config.toml
//  2. SNOOZE_* environment variables, which override file values
//  3. Defaults for anything still empty
//
// A missing config file is not an error; snooze works without one.
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:7480"
//	credentials_path = "~/.config/snooze/credentials.toml"
//	log_path = "~/.local/state/snooze/snooze.log"
//	log_level = "debug"
//	theme = "Kanagawa"
//	request_timeout = "5s"
//
// Every field is optional. Values are trimmed and paths are tilde-expanded.
//
// # Environment
//
//   - SNOOZE_API_URL
//   - SNOOZE_CREDENTIALS_PATH
//   - SNOOZE_LOG_PATH
//   - SNOOZE_LOG_LEVEL (debug, info, warn, error)
//   - SNOOZE_THEME
//   - SNOOZE_REQUEST_TIMEOUT (Go duration, e.g. "15s")
//
// # Defaults
//
//   - API: https://hack-or-snooze-v3.herokuapp.com
//   - Credentials: ~/.config/snooze/credentials.toml
//   - Log file: ~/.local/state/snooze/snooze.log
//   - Log level: info
//   - Theme: Nightfox
//   - Request timeout: 10s
//
// Load returns an error for unreadable or malformed files, bad durations and
// unknown log levels.
package config
