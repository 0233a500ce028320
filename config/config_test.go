package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smartshop.db", cfg.Database.Path)
	assert.Equal(t, 100, cfg.Ingest.BatchSize)
	assert.Equal(t, "data/raw", cfg.Ingest.DataDir)
	assert.False(t, cfg.Ingest.Strict)
	assert.Equal(t, 0.8, cfg.Quality.MinSuccessRate)
	assert.Equal(t, 100, cfg.Quality.MaxErrorCount)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smartshop.toml")
	content := `
[database]
path = "custom.db"

[ingest]
batch_size = 25
strict = true

[quality]
min_success_rate = 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "custom.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Ingest.BatchSize)
	assert.True(t, cfg.Ingest.Strict)
	assert.Equal(t, 0.5, cfg.Quality.MinSuccessRate)
	// Values absent from the file keep their defaults
	assert.Equal(t, 100, cfg.Quality.MaxErrorCount)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"zero batch size", func(c *Config) { c.Ingest.BatchSize = 0 }},
		{"negative batch size", func(c *Config) { c.Ingest.BatchSize = -1 }},
		{"rate above one", func(c *Config) { c.Quality.MinSuccessRate = 1.5 }},
		{"negative rate", func(c *Config) { c.Quality.MinSuccessRate = -0.1 }},
		{"negative error count", func(c *Config) { c.Quality.MaxErrorCount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Path: "smartshop.db"},
				Ingest:   IngestConfig{BatchSize: 100, DataDir: "data/raw"},
				Quality:  QualityConfig{MinSuccessRate: 0.8, MaxErrorCount: 100},
			}
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartshop.toml")

	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Ingest.BatchSize)

	// Second write must refuse to clobber
	assert.Error(t, WriteDefault(path))
}
