// Package core defines the shared language of the Dremio connector.
//
// This package contains:
//   - Dialect configuration (DialectConfig, IdentifierConfig)
//   - The error taxonomy (ConfigurationError, ConnectionError, StatementError)
//   - Generic result shapes (Row, TableDescriptor)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
