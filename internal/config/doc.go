// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.simpletodo/simpletodo.toml or OS-specific config directory)
// 3. Project config file (simpletodo.toml or .simpletodo.toml in the working directory)
// 4. Environment variables (SIMPLETODO_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.simpletodo/simpletodo.toml (preferred)
// - Windows: %APPDATA%\simpletodo\simpletodo.toml
// - macOS: ~/Library/Application Support/simpletodo/simpletodo.toml
// - Linux/BSD: $XDG_CONFIG_HOME/simpletodo/simpletodo.toml or ~/.config/simpletodo/simpletodo.toml
package config
