package config

import "time"

// Config holds runtime settings for the RFP monitor.
type Config struct {
	// DatabasePath is the SQLite file backing the persistence store.
	// ":memory:" keeps everything in process.
	DatabasePath string
	// SchemaVersion is stamped into every persisted envelope and export.
	SchemaVersion string

	SyncInterval time.Duration
	// SyncLatency simulates the round trip to the remote during a sync.
	SyncLatency time.Duration
	StartOffline bool

	AuditCapacity    int
	ExportAuditLimit int
	FilterDebounce   time.Duration

	ExportDir string
	LogLevel  string

	// MetricsAddr enables the /metrics, /healthz and /status listener
	// when non-empty.
	MetricsAddr string

	S3 S3Config
}

// S3Config configures the optional S3-compatible backup sink. An empty
// Bucket disables it.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// Enabled reports whether backups should also go to S3.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "rfpmonitor.db"
	c.SchemaVersion = "1.0.0"
	c.SyncInterval = 30 * time.Second
	c.SyncLatency = 0
	c.StartOffline = false
	c.AuditCapacity = 5000
	c.ExportAuditLimit = 1000
	c.FilterDebounce = 300 * time.Millisecond
	c.ExportDir = "exports"
	c.LogLevel = "info"
	c.MetricsAddr = ""
	c.S3 = S3Config{Region: "us-east-1"}
}

// LoadConfig applies defaults, then the optional config file plus RFP_*
// environment variables, then command-line flags. Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
