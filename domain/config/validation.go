package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates askagent configuration.
// Credentials are not checked here; they may arrive from the environment
// after a file is loaded, and the provider factories reject missing keys.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns all problems at once.
func (v *Validator) Validate(cfg *Config) ValidationErrors {
	v.errors = nil

	v.validateAgent(cfg)
	v.validateModel(cfg)
	v.validateSearch(cfg)
	v.validateResilience(cfg)
	v.validateStorage(cfg)
	v.validateLogging(cfg)
	v.validateTelemetry(cfg)

	return v.errors
}

// Validate is a convenience wrapper around NewValidator().Validate.
func (c *Config) Validate() error {
	if errs := NewValidator().Validate(c); errs.HasErrors() {
		return errs
	}
	return nil
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) oneOf(path, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.addError(path, fmt.Sprintf("must be one of [%s], got %q", strings.Join(allowed, ", "), value))
}

func (v *Validator) validateAgent(cfg *Config) {
	if cfg.Agent.MaxIterations < 0 {
		v.addError("agent.max_iterations", "max_iterations must be non-negative")
	}
	if cfg.Agent.Timeout < 0 {
		v.addError("agent.timeout", "timeout must be non-negative")
	}
}

func (v *Validator) validateModel(cfg *Config) {
	m := cfg.Model
	v.oneOf("model.provider", m.Provider, ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderScripted)
	if m.Provider != ProviderScripted && m.Name == "" {
		v.addError("model.name", "model name is required")
	}
	if m.Provider == ProviderScripted && len(m.Script) == 0 {
		v.addError("model.script", "scripted provider needs at least one completion")
	}
	if m.Temperature < 0 || m.Temperature > 2 {
		v.addError("model.temperature", "temperature must be between 0 and 2")
	}
	if m.MaxTokens < 0 {
		v.addError("model.max_tokens", "max_tokens must be non-negative")
	}
	if m.Timeout < 0 {
		v.addError("model.timeout", "timeout must be non-negative")
	}
}

func (v *Validator) validateSearch(cfg *Config) {
	s := cfg.Search
	v.oneOf("search.provider", s.Provider, SearchDuckDuckGo, SearchBrave, SearchStatic)
	if s.MaxResults < 1 {
		v.addError("search.max_results", "max_results must be at least 1")
	}
	if s.Timeout < 0 {
		v.addError("search.timeout", "timeout must be non-negative")
	}
	if s.RateLimit < 0 {
		v.addError("search.rate_limit", "rate_limit must be non-negative")
	}

	c := s.Cache
	v.oneOf("search.cache.driver", c.Driver, "", DriverMemory, DriverRedis)
	if c.Driver == DriverRedis && c.Address == "" {
		v.addError("search.cache.address", "address is required for redis cache")
	}
	if c.TTL < 0 {
		v.addError("search.cache.ttl", "ttl must be non-negative")
	}
	if c.MaxEntries < 0 {
		v.addError("search.cache.max_entries", "max_entries must be non-negative")
	}
}

func (v *Validator) validateResilience(cfg *Config) {
	r := cfg.Resilience
	if r.MaxAttempts < 0 {
		v.addError("resilience.max_attempts", "max_attempts must be non-negative")
	}
	if r.MaxAttempts > 1 && r.Multiplier < 1 {
		v.addError("resilience.multiplier", "multiplier must be at least 1 when retrying")
	}
	if r.InitialDelay < 0 {
		v.addError("resilience.initial_delay", "initial_delay must be non-negative")
	}
	if r.BreakerThreshold < 0 {
		v.addError("resilience.breaker_threshold", "breaker_threshold must be non-negative")
	}
	if r.BreakerThreshold > 0 && r.BreakerTimeout <= 0 {
		v.addError("resilience.breaker_timeout", "breaker_timeout must be positive when the breaker is on")
	}
}

func (v *Validator) validateStorage(cfg *Config) {
	s := cfg.Storage
	v.oneOf("storage.driver", s.Driver, "", DriverMemory, DriverSQLite, DriverPostgres)
	if (s.Driver == DriverSQLite || s.Driver == DriverPostgres) && s.DSN == "" {
		v.addError("storage.dsn", fmt.Sprintf("dsn is required for %s storage", s.Driver))
	}
}

func (v *Validator) validateLogging(cfg *Config) {
	v.oneOf("logging.level", strings.ToLower(cfg.Logging.Level), "", "trace", "debug", "info", "warn", "error")
	v.oneOf("logging.format", cfg.Logging.Format, "", "console", "json")
}

func (v *Validator) validateTelemetry(cfg *Config) {
	if !cfg.Telemetry.Enabled {
		return
	}
	v.oneOf("telemetry.exporter", cfg.Telemetry.Exporter, ExporterStdout, ExporterOTLP)
}
