// Package config loads the stoq client configuration.
//
// # Resolution
//
// Load reads ~/.config/stoq/config.toml (or an explicit path). A missing file
// is not an error: defaults are used. Blank values fall back to defaults;
// out-of-range numbers are rejected with a "parse config" error.
//
// After the file, environment variables override individual settings:
//
//   - STOQ_API_URL
//   - STOQ_LOG_LEVEL
//   - STOQ_LOG_FILE
//
// LoadDotEnv can populate the environment from a .env file first; values
// already present in the environment win.
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8000"
//	request_timeout_seconds = 5
//	retry_max = 0
//	max_visible_pages = 5
//	log_file = "~/.local/state/stoq/stoq.log"
//	log_level = "info"
//
// Every key is optional. Tilde expansion is applied to paths.
package config
