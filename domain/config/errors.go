package config

import "errors"

// Loading errors.
var (
	ErrConfigNotFound    = errors.New("configuration file not found")
	ErrInvalidFormat     = errors.New("invalid configuration format")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
	ErrValidationFailed  = errors.New("configuration validation failed")
)

// Environment errors. ErrMissingEnvVar comes from ${VAR:?msg} references and
// strict expansion; ErrInvalidEnvVar from an ASKAGENT_* override that does not
// parse.
var (
	ErrMissingEnvVar = errors.New("required environment variable not set")
	ErrInvalidEnvVar = errors.New("invalid environment variable")
)
