// Package config provides SmartShop configuration loading and validation.
//
// Configuration is resolved in precedence order: defaults, user config
// (~/.smartshop/config.toml), project config (smartshop.toml found by walking
// up from the working directory), then SMARTSHOP_* environment variables.
package config

// Config represents the SmartShop configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Quality  QualityConfig  `mapstructure:"quality"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// IngestConfig configures the batch ingestion pipeline
type IngestConfig struct {
	BatchSize int    `mapstructure:"batch_size"` // records per flush (default: 100)
	DataDir   string `mapstructure:"data_dir"`   // default source directory for `ingest all`
	Strict    bool   `mapstructure:"strict"`     // abort the run on a sink failure instead of continuing
}

// QualityConfig configures post-run quality gating
type QualityConfig struct {
	MinSuccessRate float64 `mapstructure:"min_success_rate"` // alert below this rate, in [0,1] (default: 0.8)
	MaxErrorCount  int     `mapstructure:"max_error_count"`  // alert above this many validation rejects (default: 100)
	ReportDir      string  `mapstructure:"report_dir"`       // where JSON report artifacts are written
	FailOnAlert    bool    `mapstructure:"fail_on_alert"`    // treat a quality alert as a non-zero exit
}
