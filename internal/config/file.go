package config

import (
	"fmt"

	"github.com/dmitrijs2005/rfpmonitor/internal/flagx"
	"github.com/dmitrijs2005/rfpmonitor/internal/timex"
	"github.com/ilyakaznacheev/cleanenv"
)

// fileConfig is the DTO filled by cleanenv from the config file and the
// environment. It is pre-populated from the current Config so absent keys
// keep their earlier values.
type fileConfig struct {
	DatabasePath     string         `json:"database_path" yaml:"database_path" env:"RFP_DATABASE_PATH"`
	SchemaVersion    string         `json:"schema_version" yaml:"schema_version" env:"RFP_SCHEMA_VERSION"`
	SyncInterval     timex.Duration `json:"sync_interval" yaml:"sync_interval" env:"RFP_SYNC_INTERVAL"`
	SyncLatency      timex.Duration `json:"sync_latency" yaml:"sync_latency" env:"RFP_SYNC_LATENCY"`
	StartOffline     bool           `json:"start_offline" yaml:"start_offline" env:"RFP_START_OFFLINE"`
	AuditCapacity    int            `json:"audit_capacity" yaml:"audit_capacity" env:"RFP_AUDIT_CAPACITY"`
	ExportAuditLimit int            `json:"export_audit_limit" yaml:"export_audit_limit" env:"RFP_EXPORT_AUDIT_LIMIT"`
	FilterDebounce   timex.Duration `json:"filter_debounce" yaml:"filter_debounce" env:"RFP_FILTER_DEBOUNCE"`
	ExportDir        string         `json:"export_dir" yaml:"export_dir" env:"RFP_EXPORT_DIR"`
	LogLevel         string         `json:"log_level" yaml:"log_level" env:"RFP_LOG_LEVEL"`
	MetricsAddr      string         `json:"metrics_addr" yaml:"metrics_addr" env:"RFP_METRICS_ADDR"`
	S3               fileS3Config   `json:"s3" yaml:"s3"`
}

type fileS3Config struct {
	Bucket       string `json:"bucket" yaml:"bucket" env:"RFP_S3_BUCKET"`
	Region       string `json:"region" yaml:"region" env:"RFP_S3_REGION"`
	BaseEndpoint string `json:"base_endpoint" yaml:"base_endpoint" env:"RFP_S3_BASE_ENDPOINT"`
	AccessKey    string `json:"access_key" yaml:"access_key" env:"RFP_S3_ACCESS_KEY"`
	SecretKey    string `json:"secret_key" yaml:"secret_key" env:"RFP_S3_SECRET_KEY"`
}

func toFileConfig(c *Config) fileConfig {
	return fileConfig{
		DatabasePath:     c.DatabasePath,
		SchemaVersion:    c.SchemaVersion,
		SyncInterval:     timex.Duration(c.SyncInterval),
		SyncLatency:      timex.Duration(c.SyncLatency),
		StartOffline:     c.StartOffline,
		AuditCapacity:    c.AuditCapacity,
		ExportAuditLimit: c.ExportAuditLimit,
		FilterDebounce:   timex.Duration(c.FilterDebounce),
		ExportDir:        c.ExportDir,
		LogLevel:         c.LogLevel,
		MetricsAddr:      c.MetricsAddr,
		S3: fileS3Config{
			Bucket:       c.S3.Bucket,
			Region:       c.S3.Region,
			BaseEndpoint: c.S3.BaseEndpoint,
			AccessKey:    c.S3.AccessKey,
			SecretKey:    c.S3.SecretKey,
		},
	}
}

func (fc fileConfig) apply(c *Config) {
	c.DatabasePath = fc.DatabasePath
	c.SchemaVersion = fc.SchemaVersion
	c.SyncInterval = fc.SyncInterval.Std()
	c.SyncLatency = fc.SyncLatency.Std()
	c.StartOffline = fc.StartOffline
	c.AuditCapacity = fc.AuditCapacity
	c.ExportAuditLimit = fc.ExportAuditLimit
	c.FilterDebounce = fc.FilterDebounce.Std()
	c.ExportDir = fc.ExportDir
	c.LogLevel = fc.LogLevel
	c.MetricsAddr = fc.MetricsAddr
	c.S3 = S3Config{
		Bucket:       fc.S3.Bucket,
		Region:       fc.S3.Region,
		BaseEndpoint: fc.S3.BaseEndpoint,
		AccessKey:    fc.S3.AccessKey,
		SecretKey:    fc.S3.SecretKey,
	}
}

// parseFile overlays cfg with the config file named by -c/-config (if any)
// and with RFP_* environment variables.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)

	fc := toFileConfig(cfg)
	if path != "" {
		if err := cleanenv.ReadConfig(path, &fc); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&fc); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	fc.apply(cfg)
	return nil
}
