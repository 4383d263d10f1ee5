package config

import "errors"

// Sentinel error kinds for this package, matchable with errors.Is.
var (
	ErrInvalidConfig      = errors.New("invalid config")
	ErrMissingCredentials = errors.New("missing store credentials")
	ErrLoadConfig         = errors.New("load config failed")
)
