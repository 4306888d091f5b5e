// Package config loads courier's TOML configuration.
//
// # Overview
//
// The configuration names the single endpoint every request is sent to, the
// request timeout, the two catalog files and the logging setup. Everything is
// optional: a missing file or an empty value falls back to the defaults below.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/courier/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Endpoint: http://127.0.0.1:8080/exec
//   - Timeout: 30s
//   - Format file: ~/.config/courier/formats.json
//   - Params file: ~/.config/courier/params.json
//   - Log file: ~/.local/state/courier/courier.log
//   - Log level / format: info / text
//   - Watch: true (reload the catalog when its files change)
//
// # TOML Format
//
//	endpoint    = "https://script.google.com/macros/s/<deployment>/exec"
//	timeout     = "30s"
//	format_file = "~/.config/courier/formats.json"
//	params_file = "~/.config/courier/params.json"
//	log_file    = "~/.local/state/courier/courier.log"
//	log_level   = "info"
//	log_format  = "text"
//	watch       = true
//
// Paths accept "~" and are made absolute. The timeout uses Go duration syntax
// and must be positive.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors and invalid
// timeouts. Missing config files are NOT an error.
package config
