// Package config loads runtime configuration for the RFP monitor.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. JSON and YAML are
//     both accepted; RFP_* environment variables are applied on top of it
//     (and are applied on their own when no file is given).
//  3. Command-line flags (see parseFlags).
//
// Supported flags
//
//	-db string        SQLite database path
//	-sync duration    periodic sync interval, e.g. 30s
//	-log string       log level: debug, info, warn, error
//	-export-dir path  directory receiving exports and backups
//	-offline          start in offline mode
//
// # File schema
//
// Durations may be strings like "30s" or integer nanoseconds:
//
//	{
//	  "database_path": "rfpmonitor.db",
//	  "sync_interval": "30s",
//	  "audit_capacity": 5000,
//	  "s3": {"bucket": "rfp-backups", "base_endpoint": "http://127.0.0.1:9000"}
//	}
package config
