package config

import "errors"

// Errors returned while loading a guardian configuration. Loaders wrap them
// with the offending path, extension or field list.
var (
	ErrConfigNotFound    = errors.New("config: file not found")
	ErrInvalidFormat     = errors.New("config: malformed document")
	ErrUnsupportedFormat = errors.New("config: unsupported file type")
	ErrValidationFailed  = errors.New("config: validation failed")

	// ErrMissingEnvVar is returned for ${VAR:?msg} references to unset variables.
	ErrMissingEnvVar = errors.New("config: required environment variable not set")
)
