package logging

import "errors"

// Sentinel errors for logging configuration.
var (
	ErrInvalidLogLevel = errors.New("logging: invalid log level")
	ErrNilOutput       = errors.New("logging: output writer must not be nil")
)
