package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFileSystem reports only the files it was told about.
type fakeFileSystem struct {
	files map[string]bool
}

func (f *fakeFileSystem) Exists(path string) bool { return f.files[path] }

func (f *fakeFileSystem) LoadEnv(string) error { return nil }

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, "storypipe", cfg.Name)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 50*time.Millisecond, cfg.Pipeline.StageDelay)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		cfg.ApplyDefaults()
		return &cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = "qa"
		assert.ErrorContains(t, cfg.Validate(), "environment")
	})

	t.Run("negative workers", func(t *testing.T) {
		cfg := valid()
		cfg.Pipeline.Workers = -1
		assert.ErrorContains(t, cfg.Validate(), "workers")
	})

	t.Run("sample rate out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Tracing.SampleRate = 1.5
		assert.ErrorContains(t, cfg.Validate(), "sample_rate")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		assert.ErrorContains(t, cfg.Validate(), "logging")
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := `
name: storypipe
environment: production
pipeline:
  workers: 2
  stage_delay: 200ms
  output_file: out.json
tracing:
  enabled: true
  endpoint: collector:4318
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 200*time.Millisecond, cfg.Pipeline.StageDelay)
	assert.Equal(t, "out.json", cfg.Pipeline.OutputFile)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4318", cfg.Tracing.Endpoint)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORYPIPE_PIPELINE_WORKERS", "8")
	t.Setenv("STORYPIPE_PIPELINE_STAGE_DELAY", "10ms")
	t.Setenv("STORYPIPE_LOGGING_LEVEL", "debug")

	cfg, err := Load(WithFileSystem(&fakeFileSystem{}))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 10*time.Millisecond, cfg.Pipeline.StageDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingFilesUsesDefaults(t *testing.T) {
	cfg, err := Load(WithFileSystem(&fakeFileSystem{}))
	require.NoError(t, err)
	assert.Equal(t, "storypipe", cfg.Name)
	assert.NoError(t, cfg.Validate())
}

func TestEnvKeyVariants(t *testing.T) {
	assert.Equal(t, []string{"debug"}, envKeyVariants("DEBUG"))
	assert.Contains(t, envKeyVariants("PIPELINE_STAGE_DELAY"), "pipeline.stage_delay")
	assert.Contains(t, envKeyVariants("LOGGING_LEVEL"), "logging.level")
}
