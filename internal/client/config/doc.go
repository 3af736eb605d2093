// Package config loads runtime configuration for the cargodesk client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed CARGODESK_, including those from a
//     dotenv file (-e/-env, or ./.env when present).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations are strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://cargo.example/api",
//	  "database_path": "/var/lib/cargodesk/client.db",
//	  "request_timeout": "30s",
//	  "log_level": "debug",
//	  "log_backend": "zap",
//	  "search_debounce": "300ms",
//	  "single_flight_refresh": true,
//	  "suppressed_error_keys": ["decloration_file"]
//	}
//
// Malformed input in any source panics; configuration errors are fatal at
// startup.
package config
