// Package dremio provides the Dremio SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package dremio

import "github.com/leapstack-labs/dremio-connector/pkg/core"

// Config is the Dremio dialect configuration.
var Config = &core.DialectConfig{
	Name:          "dremio",
	DefaultSchema: "",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseSensitive, // Dremio resolves unquoted identifiers case-insensitively but preserves case
	},

	SchemaSwitch:    "SET SCHEMA",
	ListTables:      "SHOW TABLES",
	ListTablesScope: "IN",

	Keywords: []string{
		"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT",
		"OFFSET", "FETCH", "JOIN", "LEFT", "RIGHT", "FULL", "INNER", "OUTER",
		"CROSS", "ON", "USING", "UNION", "INTERSECT", "EXCEPT", "WITH", "AS",
		"CASE", "WHEN", "THEN", "ELSE", "END", "AND", "OR", "NOT", "IN",
		"IS", "NULL", "LIKE", "BETWEEN", "DISTINCT", "SHOW", "TABLES",
		"SCHEMAS", "DESCRIBE", "USE", "SET", "SCHEMA", "REFLECTION", "VDS",
		"PDS", "AT", "BRANCH", "TAG", "COMMIT", "SNAPSHOT",
	},
}
