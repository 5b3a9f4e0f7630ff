package config

import (
	"fmt"
	"time"

	"github.com/simstim-dev/resultcache/cache"
	"github.com/simstim-dev/resultcache/observe"
)

// Config is the complete application configuration.
type Config struct {
	Cache     CacheConfig     `yaml:"cache"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CacheConfig controls the result cache engine.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	MaxMB   int64  `yaml:"max_mb"`
	TTLDays int    `yaml:"ttl_days"`
}

// TelemetryConfig controls logging, metrics, and tracing.
type TelemetryConfig struct {
	LogLevel        string  `yaml:"log_level"`
	MetricsEnabled  bool    `yaml:"metrics_enabled"`
	MetricsExporter string  `yaml:"metrics_exporter"`
	TracingEnabled  bool    `yaml:"tracing_enabled"`
	TracingExporter string  `yaml:"tracing_exporter"`
	SamplePct       float64 `yaml:"sample_pct"`
}

// Default returns the built-in configuration: cache enabled, a .resultcache
// directory relative to the working directory, a 100 MB budget, a 7-day TTL,
// info-level logging, and all exporters off.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".resultcache",
			MaxMB:   100,
			TTLDays: 7,
		},
		Telemetry: TelemetryConfig{
			LogLevel:        "info",
			MetricsExporter: "none",
			TracingExporter: "none",
			SamplePct:       1.0,
		},
	}
}

// Validate checks the configuration and returns the first problem found.
func (c Config) Validate() error {
	if c.Cache.Dir == "" {
		return ErrEmptyDir
	}
	if c.Cache.MaxMB <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxMB, c.Cache.MaxMB)
	}
	if c.Cache.TTLDays < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTTLDays, c.Cache.TTLDays)
	}
	switch c.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Telemetry.LogLevel)
	}
	return nil
}

// CachePolicy converts the cache section into an engine policy.
// A zero TTLDays means entries never expire.
func (c Config) CachePolicy() cache.Policy {
	return cache.Policy{
		Enabled:  c.Cache.Enabled,
		TTL:      time.Duration(c.Cache.TTLDays) * 24 * time.Hour,
		MaxBytes: c.Cache.MaxMB << 20,
	}
}

// Observability converts the telemetry section into an observer config.
func (c Config) Observability() observe.Config {
	return observe.Config{
		ServiceName: "resultcache",
		Tracing: observe.TracingConfig{
			Enabled:   c.Telemetry.TracingEnabled,
			Exporter:  c.Telemetry.TracingExporter,
			SamplePct: c.Telemetry.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Telemetry.MetricsEnabled,
			Exporter: c.Telemetry.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.Telemetry.LogLevel,
		},
	}
}
