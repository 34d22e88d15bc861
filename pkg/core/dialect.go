package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data with no handler functions.
//
// The runtime behavior (grammar, processor, introspector) lives in
// pkg/dialect.Dialect, which embeds this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "dremio")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the schema used when none is configured
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// SchemaSwitch is the statement prefix used to change the current schema
	// (e.g., "SET SCHEMA").
	SchemaSwitch string

	// ListTables is the native metadata statement for catalog introspection
	// (e.g., "SHOW TABLES").
	ListTables string

	// ListTablesScope is the keyword that scopes ListTables to one schema
	// (e.g., "IN").
	ListTablesScope string

	// Keywords for autocomplete/highlighting
	Keywords []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Dremio schema paths, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly.
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison only.
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (Dremio, ODBC).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters.
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}
