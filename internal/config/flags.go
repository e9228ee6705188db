package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/rfpmonitor/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows about. args is usually
// os.Args[1:]; unknown flags are filtered out first with flagx.FilterArgs.
//
//	-db string        SQLite database path
//	-sync duration    periodic sync interval
//	-log string       log level
//	-export-dir path  export/backup directory
//	-offline          start offline
//	-metrics addr     metrics listen address
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-db", "-sync", "-log", "-export-dir", "-offline", "-metrics"})

	fs := flag.NewFlagSet("rfpmonitor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database path")
	fs.DurationVar(&cfg.SyncInterval, "sync", cfg.SyncInterval, "periodic sync interval")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "directory for exports and backups")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "metrics listen address, empty to disable")
	fs.BoolVar(&cfg.StartOffline, "offline", cfg.StartOffline, "start in offline mode")

	return fs.Parse(args)
}
