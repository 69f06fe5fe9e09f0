package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if errs := NewValidator().Validate(cfg); errs.HasErrors() {
		t.Fatalf("Default() validation errors = %v", errs)
	}
	if cfg.Agent.MaxIterations != 3 {
		t.Errorf("MaxIterations = %v, want 3", cfg.Agent.MaxIterations)
	}
	if cfg.Model.Provider != ProviderGemini {
		t.Errorf("Model.Provider = %v, want %v", cfg.Model.Provider, ProviderGemini)
	}
	if cfg.Search.Provider != SearchDuckDuckGo {
		t.Errorf("Search.Provider = %v, want %v", cfg.Search.Provider, SearchDuckDuckGo)
	}
	if cfg.Resilience.MaxAttempts != 1 {
		t.Errorf("Resilience.MaxAttempts = %v, want 1", cfg.Resilience.MaxAttempts)
	}
	if cfg.Model.APIKey != "" {
		t.Error("Default() carries a credential")
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"negative iterations", func(c *Config) { c.Agent.MaxIterations = -1 }, "agent.max_iterations"},
		{"unknown provider", func(c *Config) { c.Model.Provider = "claude-web" }, "model.provider"},
		{"missing model name", func(c *Config) { c.Model.Name = "" }, "model.name"},
		{"empty script", func(c *Config) { c.Model.Provider = ProviderScripted }, "model.script"},
		{"temperature range", func(c *Config) { c.Model.Temperature = 3 }, "model.temperature"},
		{"unknown search", func(c *Config) { c.Search.Provider = "bing" }, "search.provider"},
		{"zero results", func(c *Config) { c.Search.MaxResults = 0 }, "search.max_results"},
		{"redis without address", func(c *Config) { c.Search.Cache.Driver = DriverRedis }, "search.cache.address"},
		{"unknown cache", func(c *Config) { c.Search.Cache.Driver = "memcached" }, "search.cache.driver"},
		{"retry multiplier", func(c *Config) { c.Resilience.MaxAttempts = 3; c.Resilience.Multiplier = 0.5 }, "resilience.multiplier"},
		{"breaker timeout", func(c *Config) { c.Resilience.BreakerThreshold = 2; c.Resilience.BreakerTimeout = 0 }, "resilience.breaker_timeout"},
		{"sqlite without dsn", func(c *Config) { c.Storage.Driver = DriverSQLite }, "storage.dsn"},
		{"unknown storage", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"telemetry exporter", func(c *Config) { c.Telemetry.Enabled = true; c.Telemetry.Exporter = "zipkin" }, "telemetry.exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			errs := NewValidator().Validate(cfg)
			found := false
			for _, e := range errs {
				if e.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want error at %s", errs, tt.wantPath)
			}
		})
	}
}

func TestValidator_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Agent.MaxIterations = -1
	cfg.Search.MaxResults = 0
	cfg.Storage.Driver = DriverPostgres

	err := cfg.Validate()
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Validate() error = %T, want ValidationErrors", err)
	}
	if len(errs) != 3 {
		t.Errorf("len(errs) = %v, want 3", len(errs))
	}
	if !strings.HasPrefix(errs.Error(), "3 validation errors") {
		t.Errorf("Error() = %q", errs.Error())
	}
}

func TestValidator_MissingKeyIsNotAnError(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Search.Provider = SearchBrave
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := d.UnmarshalJSON([]byte(`"1m30s"`)); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if d.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v, want 1m30s", d.Duration())
	}

	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != `"1m30s"` {
		t.Errorf("MarshalJSON() = %s, want \"1m30s\"", b)
	}

	if err := d.UnmarshalJSON([]byte(`"soon"`)); err == nil {
		t.Error("UnmarshalJSON(soon) error = nil, want error")
	}
}
