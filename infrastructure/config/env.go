package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
)

var (
	bracketPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)
	simplePattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// Environment variables overlaid by ApplyEnv.
const (
	EnvModelProvider  = "ASKAGENT_MODEL_PROVIDER"
	EnvModel          = "ASKAGENT_MODEL"
	EnvModelAPIKey    = "ASKAGENT_MODEL_API_KEY"
	EnvModelBaseURL   = "ASKAGENT_MODEL_BASE_URL"
	EnvSearchProvider = "ASKAGENT_SEARCH_PROVIDER"
	EnvSearchAPIKey   = "ASKAGENT_SEARCH_API_KEY"
	EnvMaxIterations  = "ASKAGENT_MAX_ITERATIONS"
	EnvLogLevel       = "ASKAGENT_LOG_LEVEL"
	EnvStorageDriver  = "ASKAGENT_STORAGE_DRIVER"
	EnvStorageDSN     = "ASKAGENT_STORAGE_DSN"

	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvBraveAPIKey  = "BRAVE_SEARCH_API_KEY"
)

// envExpander expands environment variables in configuration strings.
type envExpander struct {
	// strict fails if a referenced variable is not set.
	strict bool
	// missing tracks missing environment variables.
	missing []string
}

// Expand expands environment variables in the input string.
// Supported patterns:
//   - ${VAR} - expands to the value of VAR
//   - ${VAR:-default} - expands to VAR or "default" if not set
//   - ${VAR:?error message} - fails if VAR is not set
//   - $VAR - simple expansion (not recommended, use ${VAR})
func (e *envExpander) Expand(input string) (string, error) {
	e.missing = nil

	result := bracketPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]

		varName, modifier, _ := strings.Cut(inner, ":")
		value, exists := os.LookupEnv(varName)

		switch {
		case strings.HasPrefix(modifier, "-"):
			if !exists || value == "" {
				return modifier[1:]
			}
		case strings.HasPrefix(modifier, "?"):
			if !exists || value == "" {
				e.missing = append(e.missing, fmt.Sprintf("%s: %s", varName, modifier[1:]))
				return match
			}
		default:
			if !exists {
				if e.strict {
					e.missing = append(e.missing, varName)
				}
				return ""
			}
		}
		return value
	})

	result = simplePattern.ReplaceAllStringFunc(result, func(match string) string {
		varName := match[1:]
		value, exists := os.LookupEnv(varName)
		if !exists {
			if e.strict {
				e.missing = append(e.missing, varName)
			}
			return ""
		}
		return value
	})

	if len(e.missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(e.missing, ", "))
	}

	return result, nil
}

// ExpandEnv is a convenience function that expands environment variables.
func ExpandEnv(input string) string {
	e := &envExpander{strict: false}
	result, _ := e.Expand(input)
	return result
}

// ExpandEnvStrict expands environment variables and returns an error for missing vars.
func ExpandEnvStrict(input string) (string, error) {
	e := &envExpander{strict: true}
	return e.Expand(input)
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays process environment variables onto cfg.
func ApplyEnv(cfg *domainconfig.Config) error {
	return ApplyEnvFrom(cfg, os.LookupEnv)
}

// ApplyEnvFrom overlays variables from lookup onto cfg.
//
// ASKAGENT_* variables override file values. Vendor credential variables
// such as GEMINI_API_KEY only fill an empty key for the matching provider.
func ApplyEnvFrom(cfg *domainconfig.Config, lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvModelProvider); ok {
		cfg.Model.Provider = strings.ToLower(v)
	}
	if v, ok := get(EnvModel); ok {
		cfg.Model.Name = v
	}
	if v, ok := get(EnvModelBaseURL); ok {
		cfg.Model.BaseURL = v
	}
	if v, ok := get(EnvModelAPIKey); ok {
		cfg.Model.APIKey = v
	}
	if cfg.Model.APIKey == "" {
		for _, key := range vendorKeys(cfg.Model.Provider) {
			if v, ok := get(key); ok {
				cfg.Model.APIKey = v
				break
			}
		}
	}

	if v, ok := get(EnvSearchProvider); ok {
		cfg.Search.Provider = strings.ToLower(v)
	}
	if v, ok := get(EnvSearchAPIKey); ok {
		cfg.Search.APIKey = v
	}
	if cfg.Search.APIKey == "" && cfg.Search.Provider == domainconfig.SearchBrave {
		if v, ok := get(EnvBraveAPIKey); ok {
			cfg.Search.APIKey = v
		}
	}

	if v, ok := get(EnvMaxIterations); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", domainconfig.ErrInvalidEnvVar, EnvMaxIterations, v)
		}
		cfg.Agent.MaxIterations = n
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := get(EnvStorageDriver); ok {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := get(EnvStorageDSN); ok {
		cfg.Storage.DSN = v
	}

	return nil
}

func vendorKeys(provider string) []string {
	switch provider {
	case domainconfig.ProviderGemini:
		return []string{EnvGeminiAPIKey, EnvGoogleAPIKey}
	case domainconfig.ProviderOpenAI:
		return []string{EnvOpenAIAPIKey}
	default:
		return nil
	}
}
