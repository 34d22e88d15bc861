// Package dialect provides SQL dialect definitions for the connector.
//
// A Dialect bundles three capabilities consumed by the generic SQL layer:
// a Grammar (identifier quoting, table-resource builders, pagination and
// the dialect's statements), a Processor (raw rows into core.Row) and an
// Introspector (catalog listing). Concrete dialects are registered from
// pkg/dialects/*/ packages.
package dialect

import (
	"strings"

	"github.com/leapstack-labs/dremio-connector/pkg/core"
)

// Re-export normalization and placeholder constants so dialect definitions
// read naturally.
const (
	NormLowercase       = core.NormLowercase
	NormUppercase       = core.NormUppercase
	NormCaseSensitive   = core.NormCaseSensitive
	NormCaseInsensitive = core.NormCaseInsensitive

	PlaceholderQuestion = core.PlaceholderQuestion
	PlaceholderDollar   = core.PlaceholderDollar
)

// Dialect represents a SQL dialect with its configuration and behavior.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema string                // Used when a connection is provisioned without a schema ("" for Dremio: the user's home space)
	Placeholder   core.PlaceholderStyle // How to format query parameters

	// Metadata statements
	schemaSwitch    string
	listTables      string
	listTablesScope string

	// Case used for schema names sent to the server
	schemaCase core.NormalizationStrategy

	keywords map[string]struct{}

	processor Processor
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	keywords := make([]string, 0, len(d.keywords))
	for kw := range d.keywords {
		keywords = append(keywords, kw)
	}

	return &core.DialectConfig{
		Name:            d.Name,
		Identifiers:     d.Identifiers,
		DefaultSchema:   d.DefaultSchema,
		Placeholder:     d.Placeholder,
		SchemaSwitch:    d.schemaSwitch,
		ListTables:      d.listTables,
		ListTablesScope: d.listTablesScope,
		Keywords:        keywords,
	}
}

// NormalizeSchema returns the canonical form of a schema name as the server
// expects it in schema-switch statements.
func (d *Dialect) NormalizeSchema(name string) string {
	return normalize(name, d.schemaCase)
}

func normalize(name string, strategy core.NormalizationStrategy) string {
	switch strategy {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// Grammar returns the SQL-generation rules for this dialect.
func (d *Dialect) Grammar() *Grammar {
	return &Grammar{dialect: d}
}

// Processor returns the row post-processor for this dialect.
func (d *Dialect) Processor() Processor {
	if d.processor == nil {
		return DefaultProcessor{}
	}
	return d.processor
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with generic SQL defaults:
// double-quoted identifiers, lowercase normalization, ? placeholders and
// the ANSI-style metadata statements.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
			schemaSwitch:    "SET SCHEMA",
			listTables:      "SHOW TABLES",
			listTablesScope: "IN",
			schemaCase:      core.NormCaseSensitive,
			keywords:        make(map[string]struct{}),
		},
	}
}

// New creates a dialect builder from a DialectConfig.
func New(cfg *core.DialectConfig) *Builder {
	b := NewDialect(cfg.Name)
	b.dialect.Identifiers = cfg.Identifiers
	b.dialect.DefaultSchema = cfg.DefaultSchema
	b.dialect.Placeholder = cfg.Placeholder
	if cfg.SchemaSwitch != "" {
		b.dialect.schemaSwitch = cfg.SchemaSwitch
	}
	if cfg.ListTables != "" {
		b.dialect.listTables = cfg.ListTables
	}
	if cfg.ListTablesScope != "" {
		b.dialect.listTablesScope = cfg.ListTablesScope
	}
	return b.Keywords(cfg.Keywords...)
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets the query parameter placeholder style.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// SchemaCase sets how schema names are normalized before they are sent to
// the server in schema-switch statements.
func (b *Builder) SchemaCase(norm core.NormalizationStrategy) *Builder {
	b.dialect.schemaCase = norm
	return b
}

// SchemaSwitch sets the statement prefix used to change the current schema.
func (b *Builder) SchemaSwitch(prefix string) *Builder {
	b.dialect.schemaSwitch = prefix
	return b
}

// ListTables sets the catalog listing statement and its schema-scope keyword.
func (b *Builder) ListTables(statement, scope string) *Builder {
	b.dialect.listTables = statement
	b.dialect.listTablesScope = scope
	return b
}

// Keywords adds reserved keywords, reported by Config.
func (b *Builder) Keywords(kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.keywords[strings.ToUpper(kw)] = struct{}{}
	}
	return b
}

// WithProcessor overrides the default row processor.
func (b *Builder) WithProcessor(p Processor) *Builder {
	b.dialect.processor = p
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
