// Package config provides the domain model for askagent configuration.
package config

import "time"

// Config is the complete askagent configuration.
type Config struct {
	// Agent contains loop settings.
	Agent AgentConfig `json:"agent" yaml:"agent"`
	// Model selects and configures the reasoning model.
	Model ModelConfig `json:"model" yaml:"model"`
	// Search selects and configures the search capability.
	Search SearchConfig `json:"search" yaml:"search"`
	// Resilience configures retries and circuit breaking on external calls.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
	// Storage configures where run outcomes are recorded.
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	// Logging configures structured logging.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Telemetry configures metrics and tracing.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// AgentConfig contains loop settings.
type AgentConfig struct {
	// MaxIterations bounds completions and searches per question.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	// Timeout bounds a whole question (0 = none).
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ModelConfig configures the reasoning model.
type ModelConfig struct {
	// Provider is gemini, openai, ollama or scripted.
	Provider string `json:"provider" yaml:"provider"`
	// Name is the provider's model identifier.
	Name string `json:"name" yaml:"name"`
	// APIKey is the credential. Never commit it; use ${VAR} or the environment.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	// MaxTokens caps completion length (0 = provider default).
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// Timeout bounds a single completion call.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Script holds canned completions for the scripted provider.
	Script []string `json:"script,omitempty" yaml:"script,omitempty"`
}

// SearchConfig configures the search capability.
type SearchConfig struct {
	// Provider is duckduckgo, brave or static.
	Provider string `json:"provider" yaml:"provider"`
	// APIKey is the credential for providers that need one.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// MaxResults caps the results per query.
	MaxResults int `json:"max_results" yaml:"max_results"`
	// Timeout bounds a single search call.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// RateLimit is the maximum queries per second (0 = provider default).
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	// Cache configures the optional search result cache.
	Cache CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`
}

// CacheConfig configures the search result cache.
type CacheConfig struct {
	// Driver is "", memory or redis. Empty disables caching.
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	// TTL is how long results stay cached.
	TTL Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	// Address is the redis host:port.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	// Password is the redis password.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// DB is the redis database number.
	DB int `json:"db,omitempty" yaml:"db,omitempty"`
	// KeyPrefix namespaces redis keys.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
	// MaxEntries caps the memory cache (0 = unlimited).
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
}

// ResilienceConfig configures retries and circuit breaking.
type ResilienceConfig struct {
	// MaxAttempts is the attempts per external call. 1 disables retry.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	// InitialDelay is the first retry delay.
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	// Multiplier is the backoff multiplier.
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	// BreakerThreshold is consecutive failures before the circuit opens (0 = off).
	BreakerThreshold int `json:"breaker_threshold,omitempty" yaml:"breaker_threshold,omitempty"`
	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout Duration `json:"breaker_timeout,omitempty" yaml:"breaker_timeout,omitempty"`
}

// StorageConfig configures the run outcome store.
type StorageConfig struct {
	// Driver is "", memory, sqlite or postgres. Empty disables recording.
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	// DSN is the sqlite path or postgres connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// Schema is the postgres schema.
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TelemetryConfig configures metrics and tracing.
type TelemetryConfig struct {
	// Enabled turns tracing export on.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Exporter is stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// ServiceName identifies this process in traces.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
}

// Provider and driver names.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderScripted = "scripted"

	SearchDuckDuckGo = "duckduckgo"
	SearchBrave      = "brave"
	SearchStatic     = "static"

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"

	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			MaxIterations: 3,
		},
		Model: ModelConfig{
			Provider:    ProviderGemini,
			Name:        "gemini-2.0-flash",
			Temperature: 0,
			Timeout:     Duration(60 * time.Second),
		},
		Search: SearchConfig{
			Provider:   SearchDuckDuckGo,
			MaxResults: 5,
			Timeout:    Duration(15 * time.Second),
			Cache: CacheConfig{
				TTL:       Duration(time.Hour),
				KeyPrefix: "askagent:",
			},
		},
		Resilience: ResilienceConfig{
			MaxAttempts:    1,
			InitialDelay:   Duration(500 * time.Millisecond),
			Multiplier:     2,
			BreakerTimeout: Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Exporter:    ExporterStdout,
			ServiceName: "askagent",
		},
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
