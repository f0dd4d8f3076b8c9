package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint is returned when a path does not name a known resource type.
	ErrInvalidEndpoint = errors.New("Invalid endpoint")
	ErrNoBackends      = errors.New("no backends available")
)

// ConfigError reports a configuration that cannot produce a usable registry.
// It is fatal at startup.
type ConfigError struct {
	Source string
	Err    error
}

func NewConfigError(source string, format string, args ...any) *ConfigError {
	return &ConfigError{Source: source, Err: fmt.Errorf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
