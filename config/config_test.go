package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
cache:
  cleanup_interval: 30s
  layers:
    - name: analysis
      ttl: 5m
      max_entries: 1000
      max_bytes: 16777216
    - name: templates
      ttl: 0s
      max_entries: 200
      max_bytes: 4194304
breaker:
  max_failures: 5
  reset_timeout: 30s
  half_open_max: 2
retry:
  max_retries: 2
  delay: 100ms
  multiplier: 2.0
  max_delay: 5s
adapter:
  enable_fallback: true
  fallback_strategy: cache
  operation_timeout: 10s
observe:
  service_name: svcruntime
  logging: true
  log_level: info
`

func TestParse_Sample(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(cfg.Cache.Layers) != 2 {
		t.Fatalf("len(Layers) = %d, want 2", len(cfg.Cache.Layers))
	}
	if cfg.Cache.Layers[0].TTL != 5*time.Minute {
		t.Errorf("Layers[0].TTL = %v, want 5m", cfg.Cache.Layers[0].TTL)
	}
	if cfg.Breaker.MaxFailures != 5 {
		t.Errorf("Breaker.MaxFailures = %d, want 5", cfg.Breaker.MaxFailures)
	}
	if !cfg.Adapter.EnableFallback {
		t.Error("Adapter.EnableFallback = false, want true")
	}
	if cfg.Adapter.FallbackStrategy != "cache" {
		t.Errorf("FallbackStrategy = %q, want cache", cfg.Adapter.FallbackStrategy)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Observe.ServiceName != "svcruntime" {
		t.Errorf("ServiceName = %q, want svcruntime", cfg.Observe.ServiceName)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("SVCRT_SERVICE", "from-env")

	cfg, err := Parse([]byte("observe:\n  service_name: ${SVCRT_SERVICE}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Observe.ServiceName != "from-env" {
		t.Errorf("ServiceName = %q, want from-env", cfg.Observe.ServiceName)
	}
}

func TestParse_MissingEnvVarErrors(t *testing.T) {
	_, err := Parse([]byte("observe:\n  service_name: ${SVCRT_DEFINITELY_UNSET}\n"))
	if err == nil {
		t.Fatal("Parse() error = nil, want missing env error")
	}
	if !strings.Contains(err.Error(), "SVCRT_DEFINITELY_UNSET") {
		t.Errorf("error %q should name the missing variable", err.Error())
	}
}

func TestParse_DollarEscape(t *testing.T) {
	cfg, err := Parse([]byte("observe:\n  service_name: costs-$$5\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Observe.ServiceName != "costs-$5" {
		t.Errorf("ServiceName = %q, want costs-$5", cfg.Observe.ServiceName)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			"duplicate layer",
			"cache:\n  layers:\n    - name: a\n    - name: a\n",
			ErrDuplicateLayer,
		},
		{
			"empty layer name",
			"cache:\n  layers:\n    - name: \"\"\n",
			ErrInvalidLayerName,
		},
		{
			"bad fallback",
			"adapter:\n  fallback_strategy: sideways\n",
			ErrInvalidFallback,
		},
		{
			"negative retries",
			"retry:\n  max_retries: -1\n",
			ErrNegativeValue,
		},
		{
			"bad log level",
			"observe:\n  log_level: shouty\n",
			ErrInvalidLogLevel,
		},
		{
			"bad sample pct",
			"observe:\n  sample_pct: 1.5\n",
			ErrInvalidSamplingRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("cache: [unclosed")); err == nil {
		t.Error("Parse() error = nil, want parse error")
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := cfg.CacheOptions()
	if opts.CleanupInterval != 30*time.Second {
		t.Errorf("CleanupInterval = %v, want 30s", opts.CleanupInterval)
	}
	if policy, ok := opts.Layers["analysis"]; !ok || policy.MaxEntries != 1000 {
		t.Errorf("Layers[analysis] = %+v, want MaxEntries 1000", policy)
	}

	bc := cfg.BreakerConfig()
	if bc.MaxFailures != 5 || bc.HalfOpenMaxRequests != 2 {
		t.Errorf("BreakerConfig = %+v, want MaxFailures 5, HalfOpenMaxRequests 2", bc)
	}

	rc := cfg.RetryConfig()
	// 2 retries on top of the first attempt.
	if rc.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", rc.MaxAttempts)
	}
	if rc.InitialDelay != 100*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 100ms", rc.InitialDelay)
	}

	oc := cfg.ObserveConfig()
	if oc.ServiceName != "svcruntime" || !oc.Logging.Enabled || oc.Logging.Level != "info" {
		t.Errorf("ObserveConfig = %+v, want svcruntime/info logging", oc)
	}
}
