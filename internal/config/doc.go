// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/overpack/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/overpack/config.cue on macOS, %APPDATA%\overpack\config.cue
// on Windows), falling back to ./config.cue. Values may be overridden by OVERPACK_*
// environment variables, e.g. OVERPACK_DUMP_FORMAT=directory.
//
// Files are validated against a CUE schema (config_schema.cue); the merged result is
// checked again by Config.IsValid.
package config
