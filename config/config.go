// Package config loads the runtime configuration from YAML: cache layer
// policies, circuit breaker and retry defaults, adapter fallback settings,
// and the telemetry setup. `${VAR}` references are expanded strictly
// before parsing; a missing variable is an error, `$$` escapes a literal
// dollar.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/genforge/svcruntime/cache"
	"github.com/genforge/svcruntime/observe"
	"github.com/genforge/svcruntime/resilience"
)

// Sentinel errors for config validation.
var (
	ErrDuplicateLayer      = errors.New("config: duplicate cache layer")
	ErrInvalidLayerName    = errors.New("config: invalid cache layer name")
	ErrInvalidFallback     = errors.New("config: invalid fallback strategy")
	ErrNegativeValue       = errors.New("config: value must not be negative")
	ErrInvalidLogLevel     = errors.New("config: invalid log level")
	ErrInvalidSamplingRate = errors.New("config: sampling rate must be within [0,1]")
)

// Config is the top-level runtime configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Breaker BreakerConfig `yaml:"breaker"`
	Retry   RetryConfig   `yaml:"retry"`
	Adapter AdapterConfig `yaml:"adapter"`
	Observe ObserveConfig `yaml:"observe"`
}

// CacheConfig configures the cache manager and its layers.
type CacheConfig struct {
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Layers          []LayerConfig `yaml:"layers"`
}

// LayerConfig is one cache layer policy.
type LayerConfig struct {
	Name       string        `yaml:"name"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	MaxBytes   int64         `yaml:"max_bytes"`
}

// BreakerConfig is the default circuit breaker policy.
type BreakerConfig struct {
	MaxFailures  int           `yaml:"max_failures"`
	ResetTimeout time.Duration `yaml:"reset_timeout"`
	HalfOpenMax  int           `yaml:"half_open_max"`
}

// RetryConfig is the default retry policy.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	Delay      time.Duration `yaml:"delay"`
	Multiplier float64       `yaml:"multiplier"`
	MaxDelay   time.Duration `yaml:"max_delay"`
}

// AdapterConfig holds adapter-wide defaults.
type AdapterConfig struct {
	EnableFallback   bool          `yaml:"enable_fallback"`
	FallbackStrategy string        `yaml:"fallback_strategy"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	ServiceName string  `yaml:"service_name"`
	Version     string  `yaml:"version"`
	Tracing     bool    `yaml:"tracing"`
	TraceExport string  `yaml:"trace_exporter"`
	SamplePct   float64 `yaml:"sample_pct"`
	Metrics     bool    `yaml:"metrics"`
	MetricsExp  string  `yaml:"metrics_exporter"`
	Logging     bool    `yaml:"logging"`
	LogLevel    string  `yaml:"log_level"`
}

// Load reads, expands, parses, and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse expands environment references, parses, and validates YAML data.
func Parse(data []byte) (*Config, error) {
	expanded, err := expandEnvStrict(string(data))
	if err != nil {
		return nil, fmt.Errorf("expand config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validFallbacks = map[string]bool{
	"": true, "cache": true, "simplified": true, "partial": true,
	"default": true, "fail": true,
}

var validLogLevels = map[string]bool{
	"": true, "debug": true, "info": true, "warn": true, "error": true,
}

func validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Cache.Layers))
	for _, layer := range cfg.Cache.Layers {
		if err := cache.ValidateLayerName(layer.Name); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLayerName, layer.Name)
		}
		if seen[layer.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateLayer, layer.Name)
		}
		seen[layer.Name] = true
		if layer.MaxEntries < 0 || layer.MaxBytes < 0 {
			return fmt.Errorf("%w: layer %q budgets", ErrNegativeValue, layer.Name)
		}
	}

	if cfg.Breaker.MaxFailures < 0 || cfg.Breaker.HalfOpenMax < 0 {
		return fmt.Errorf("%w: breaker", ErrNegativeValue)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("%w: retry.max_retries", ErrNegativeValue)
	}
	if !validFallbacks[cfg.Adapter.FallbackStrategy] {
		return fmt.Errorf("%w: %q", ErrInvalidFallback, cfg.Adapter.FallbackStrategy)
	}
	if !validLogLevels[cfg.Observe.LogLevel] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Observe.LogLevel)
	}
	if cfg.Observe.SamplePct < 0 || cfg.Observe.SamplePct > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidSamplingRate, cfg.Observe.SamplePct)
	}
	return nil
}

// CacheOptions converts the cache section into manager options.
func (c *Config) CacheOptions() cache.Options {
	opts := cache.Options{
		CleanupInterval: c.Cache.CleanupInterval,
	}
	if len(c.Cache.Layers) > 0 {
		opts.Layers = make(map[string]cache.LayerPolicy, len(c.Cache.Layers))
		for _, layer := range c.Cache.Layers {
			opts.Layers[layer.Name] = cache.LayerPolicy{
				DefaultTTL: layer.TTL,
				MaxEntries: layer.MaxEntries,
				MaxBytes:   layer.MaxBytes,
			}
		}
	}
	return opts
}

// BreakerConfig converts the breaker section into the resilience config.
func (c *Config) BreakerConfig() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		MaxFailures:         c.Breaker.MaxFailures,
		ResetTimeout:        c.Breaker.ResetTimeout,
		HalfOpenMaxRequests: c.Breaker.HalfOpenMax,
	}
}

// RetryConfig converts the retry section into the resilience config.
// MaxRetries counts retries after the first attempt.
func (c *Config) RetryConfig() resilience.RetryConfig {
	cfg := resilience.RetryConfig{
		InitialDelay: c.Retry.Delay,
		Multiplier:   c.Retry.Multiplier,
		MaxDelay:     c.Retry.MaxDelay,
	}
	if c.Retry.MaxRetries > 0 {
		cfg.MaxAttempts = c.Retry.MaxRetries + 1
	}
	return cfg
}

// ObserveConfig converts the observe section into the telemetry config.
func (c *Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Observe.ServiceName,
		Version:     c.Observe.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.Tracing,
			Exporter:  c.Observe.TraceExport,
			SamplePct: c.Observe.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.Metrics,
			Exporter: c.Observe.MetricsExp,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Observe.Logging,
			Level:   c.Observe.LogLevel,
		},
	}
}
