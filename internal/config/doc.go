// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/notemd on Linux, ~/Library/Application Support/notemd on
// macOS, %APPDATA%\notemd on Windows) or from an explicit file. The file is
// validated against the embedded config_schema.cue. NOTEMD_* environment
// variables override file values (NOTEMD_ROOT, NOTEMD_INTERPRETER,
// NOTEMD_INTERPRETER_ARGS as a comma-separated list, NOTEMD_UI_VERBOSE, ...).
package config
