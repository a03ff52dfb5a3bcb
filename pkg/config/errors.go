package config

import "errors"

// Package-specific errors
var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrLoadingEnvFile is returned when an explicitly requested .env file cannot be loaded
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrInvalidPolicy is returned for an unknown overflow policy name
	ErrInvalidPolicy = errors.New("invalid overflow policy")
)
