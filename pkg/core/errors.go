package core

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindConfiguration marks a missing or invalid configuration field.
	// Raised before any network activity.
	KindConfiguration Kind = "configuration"
	// KindConnection marks a provider that rejected the DSN or a failed
	// network/auth handshake.
	KindConnection Kind = "connection"
	// KindStatement marks a statement whose provider returned an error message.
	KindStatement Kind = "statement"
	// KindUnknown is returned by KindOf for errors outside the taxonomy.
	KindUnknown Kind = "unknown"
)

// ConfigurationError is returned when a required configuration field is
// absent or a field holds an invalid value.
type ConfigurationError struct {
	// Field is the wire name of the offending field (e.g., "host", "token").
	Field string
	// Reason describes the problem; empty means the field is missing.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration: invalid field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration: missing required field %q\nHint: set %s in the dremio service configuration", e.Field, e.Field)
}

// NewMissingFieldError creates a ConfigurationError for an absent field.
func NewMissingFieldError(field string) *ConfigurationError {
	return &ConfigurationError{Field: field}
}

// ConnectionError wraps a provider failure raised while acquiring a
// connection handle.
type ConnectionError struct {
	// Code is the provider's error code, 0 when the provider supplies none.
	Code int
	// Message is the provider's failure reason.
	Message string
	// Err is the underlying provider error.
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("connection: failed to connect to Dremio server (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("connection: failed to connect to Dremio server: %s", e.Message)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatementError is returned when an executed statement reports a non-nil
// error message, or when the server silently rejects a statement the
// connector cannot treat as a soft failure.
type StatementError struct {
	Code    int
	Message string
	// Err is an optional sentinel identifying the failure.
	Err error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement: %s (code %d)", e.Message, e.Code)
}

func (e *StatementError) Unwrap() error { return e.Err }

// KindOf classifies err into the connector's error taxonomy.
func KindOf(err error) Kind {
	var cfgErr *ConfigurationError
	var connErr *ConnectionError
	var stmtErr *StatementError
	switch {
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &connErr):
		return KindConnection
	case errors.As(err, &stmtErr):
		return KindStatement
	default:
		return KindUnknown
	}
}
