package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/smartshop-ai/smartshop/errors"
)

// WriteDefault writes a config file populated with the default values.
// Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path)
	}

	defaults := map[string]any{
		"database": map[string]any{
			"path": "smartshop.db",
		},
		"ingest": map[string]any{
			"batch_size": 100,
			"data_dir":   "data/raw",
			"strict":     false,
		},
		"quality": map[string]any{
			"min_success_rate": 0.8,
			"max_error_count":  100,
			"report_dir":       "data/processed/quality_reports",
			"fail_on_alert":    false,
		},
	}

	content, err := toml.Marshal(defaults)
	if err != nil {
		return errors.Wrap(err, "marshal default config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create config directory %s", dir)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "write config file %s", path)
	}
	return nil
}
