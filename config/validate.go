package config

import "github.com/smartshop-ai/smartshop/errors"

// Validate checks configuration values that would otherwise fail deep inside a run.
func Validate(c *Config) error {
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	if c.Ingest.BatchSize <= 0 {
		return errors.Newf("ingest.batch_size must be positive, got %d", c.Ingest.BatchSize)
	}
	if c.Quality.MinSuccessRate < 0 || c.Quality.MinSuccessRate > 1 {
		return errors.Newf("quality.min_success_rate must be in [0,1], got %g", c.Quality.MinSuccessRate)
	}
	if c.Quality.MaxErrorCount < 0 {
		return errors.Newf("quality.max_error_count must not be negative, got %d", c.Quality.MaxErrorCount)
	}
	return nil
}
