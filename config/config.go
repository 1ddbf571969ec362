package config

import (
	"fmt"
	"time"

	"github.com/storypipe/storypipe/logger"
)

// Config is the full runner configuration.
type Config struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
	Pipeline    Pipeline      `yaml:"pipeline" mapstructure:"pipeline"`
	Tracing     Tracing       `yaml:"tracing" mapstructure:"tracing"`
}

// Pipeline configures execution of a single run.
type Pipeline struct {
	// Workers bounds concurrent parallel-batch members. Zero means one
	// goroutine per member.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// StageDelay is the artificial per-stage work delay.
	StageDelay time.Duration `yaml:"stage_delay" mapstructure:"stage_delay"`
	// Seed fixes stage randomness for reproducible runs. Zero seeds from
	// the clock.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
	// OutputFile is where the final package JSON is written. Empty skips
	// file output.
	OutputFile string `yaml:"output_file" mapstructure:"output_file"`
}

// Tracing configures OTLP trace export.
type Tracing struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "storypipe"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Pipeline.StageDelay == 0 {
		c.Pipeline.StageDelay = 50 * time.Millisecond
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("config.pipeline.workers must not be negative (got: %d)", c.Pipeline.Workers)
	}
	if c.Pipeline.StageDelay < 0 {
		return fmt.Errorf("config.pipeline.stage_delay must not be negative (got: %s)", c.Pipeline.StageDelay)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("config.tracing.sample_rate must be in [0, 1] (got: %g)", c.Tracing.SampleRate)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
