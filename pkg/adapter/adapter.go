// Package adapter provisions Dremio connections.
//
// This package contains the contract every connection provider must
// implement (Provider, Handle, Statement) and the dialect-bound Connection
// returned to callers. Concrete providers are in pkg/adapters/ subdirectories
// and register themselves by DSN scheme.
package adapter

import (
	"context"

	"github.com/leapstack-labs/dremio-connector/pkg/dsn"
)

// Credentials are passed to the provider alongside the DSN. Empty fields
// leave the DSN's own authentication in place.
type Credentials struct {
	Username string
	Password string
}

// Provider opens raw connection handles for one DSN scheme.
type Provider interface {
	// Open acquires a handle for d. Implementations must not return a
	// handle together with an error.
	Open(ctx context.Context, d dsn.DSN, creds Credentials) (Handle, error)
}

// Handle is an opaque live connection produced by a Provider.
type Handle interface {
	// Ping verifies the connection is usable.
	Ping(ctx context.Context) error

	// Prepare prepares a statement for execution.
	Prepare(ctx context.Context, query string) (Statement, error)

	// Query runs a statement that returns rows and yields the column names
	// and raw driver values.
	Query(ctx context.Context, query string, args ...any) (columns []string, rows [][]any, err error)

	// Close releases the connection.
	Close() error
}

// Statement is a prepared statement.
type Statement interface {
	// Execute binds args and runs the statement. It reports success; on
	// failure ErrorInfo describes the provider's error.
	Execute(ctx context.Context, args ...any) bool

	// ErrorInfo returns the provider's structured error for the last
	// failed Execute.
	ErrorInfo() ErrorInfo

	// Close releases the statement.
	Close() error
}

// ErrorInfo is a provider's structured error report. A nil Message means
// the provider signalled failure without describing it.
type ErrorInfo struct {
	SQLState string
	Code     int
	Message  *string
}
