package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "smartshop.db")

	// Ingestion defaults
	v.SetDefault("ingest.batch_size", 100)
	v.SetDefault("ingest.data_dir", "data/raw")
	v.SetDefault("ingest.strict", false)

	// Quality gate defaults
	v.SetDefault("quality.min_success_rate", 0.8)
	v.SetDefault("quality.max_error_count", 100)
	v.SetDefault("quality.report_dir", "data/processed/quality_reports")
	v.SetDefault("quality.fail_on_alert", false)
}
