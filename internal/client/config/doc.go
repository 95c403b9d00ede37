// Package config loads runtime configuration for the laundrydesk console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   laundry API base URL
//	-i int      session check interval (seconds)
//	-d string   local credential database path
//	-l string   log backend, slog or zap
//
// # JSON schema
//
// Intervals use timex.Duration, so they may be strings like "5m" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "https://laundry.example/api",
//	  "session_check_interval": "5m",
//	  "request_timeout": "15s",
//	  "database_path": "/var/lib/laundrydesk/desk.db",
//	  "default_calling_code": "+965",
//	  "log_backend": "zap"
//	}
//
// Environment variables are not consulted.
package config
