// Package config loads runtime configuration for the tracker CLI.
//
// Sources, in order of precedence (later wins):
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the tracker API
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//	-p int      issues per page
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "server_base_url": "https://tracker.example.com/api",
//	  "db_path": "/var/lib/tracker/session.db",
//	  "request_timeout": "15s",
//	  "page_size": 20,
//	  "log_level": "debug"
//	}
//
// Environment variables are not read.
package config
