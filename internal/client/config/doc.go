// Package config loads runtime configuration for the lingokeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then LINGO_* environment
//     variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote service API
//	-t int      request timeout (seconds)
//	-d string   local database path
//	-l string   log level
//
// Environment variables
//
//	LINGO_SERVER_URL, LINGO_REQUEST_TIMEOUT ("30s"), LINGO_DB_PATH,
//	LINGO_TARGET_LANG, LINGO_PAGE_SIZE, LINGO_LOG_LEVEL, LINGO_LOG_FORMAT
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080/api",
//	  "request_timeout": "30s",
//	  "database_path": "lingokeeper.db",
//	  "target_lang": "en",
//	  "default_page_size": 20
//	}
package config
