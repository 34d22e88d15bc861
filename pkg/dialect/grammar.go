package dialect

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/leapstack-labs/dremio-connector/pkg/core"
)

// Grammar holds the SQL-generation rules of a dialect. Anything not
// overridden here is left to squirrel's generic rendering.
type Grammar struct {
	dialect *Dialect
}

// StatementBuilder returns a squirrel statement builder using the dialect's
// placeholder format.
func (g *Grammar) StatementBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(g.placeholderFormat())
}

func (g *Grammar) placeholderFormat() sq.PlaceholderFormat {
	if g.dialect.Placeholder == core.PlaceholderDollar {
		return sq.Dollar
	}
	return sq.Question
}

// QuoteIdentifier quotes a single identifier.
func (g *Grammar) QuoteIdentifier(name string) string {
	return g.dialect.QuoteIdentifier(name)
}

// QuoteTableName quotes a possibly dotted table path one segment at a time,
// so "space.folder.orders" becomes "space"."folder"."orders".
func (g *Grammar) QuoteTableName(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = g.dialect.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// Select starts a SELECT on a table resource. With no columns it selects *.
func (g *Grammar) Select(table string, columns ...string) sq.SelectBuilder {
	cols := []string{"*"}
	if len(columns) > 0 {
		cols = make([]string, len(columns))
		for i, c := range columns {
			cols[i] = g.dialect.QuoteIdentifier(c)
		}
	}
	return g.StatementBuilder().Select(cols...).From(g.QuoteTableName(table))
}

// Paginate applies LIMIT n OFFSET m. Zero values leave the clause out.
func (g *Grammar) Paginate(b sq.SelectBuilder, limit, offset uint64) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(limit)
	}
	if offset > 0 {
		b = b.Offset(offset)
	}
	return b
}

// SetSchema renders the schema-switch statement for name. The schema name is
// normalized with the dialect's schema case and emitted unquoted.
func (g *Grammar) SetSchema(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("schema name is required")
	}
	if strings.ContainsAny(name, ";\n\r") {
		return "", fmt.Errorf("invalid schema name %q", name)
	}
	return g.dialect.schemaSwitch + " " + g.dialect.NormalizeSchema(name), nil
}

// ShowTables renders the catalog listing statement, scoped to schema when
// one is given.
func (g *Grammar) ShowTables(schema string) string {
	if schema == "" {
		return g.dialect.listTables
	}
	return g.dialect.listTables + " " + g.dialect.listTablesScope + " " + g.QuoteTableName(schema)
}
