// Package configs manages user configuration and filesystem locations for ripenv.
//
// User configuration is stored in TOML format at
// $XDG_CONFIG_HOME/ripenv/config.toml:
//
//	[user]
//	email = "alice@example.com"
//	keyfile = "/home/alice/.local/share/ripenv/keys/mykey.enc.json"
//
//	[defaults]
//	out_dir = "."
//	directory = "/srv/team/keys"
//	concurrency = 4
//
// Command-line flags override these values, and these values override the
// built-in defaults. Unknown keys are rejected so a typo does not silently
// fall back to a default.
//
// # Settings
//
// Global settings are initialized at startup:
//   - UserRipenvSettings: paths to user config, keys and data directories
//
// Tests override the fields of UserRipenvSettings to point at temp dirs.
package configs
