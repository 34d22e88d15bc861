package dialect

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/dremio-connector/pkg/core"
)

// Querier runs a read-only statement and returns processed rows.
type Querier interface {
	Select(ctx context.Context, query string, args ...any) ([]core.Row, error)
}

// Introspector lists catalog objects through the dialect's metadata statements.
type Introspector struct {
	dialect *Dialect
	q       Querier
}

// NewIntrospector creates an Introspector running statements on q.
func NewIntrospector(d *Dialect, q Querier) *Introspector {
	return &Introspector{dialect: d, q: q}
}

// resourceColumn is the position of the table name in listing rows.
// Listing rows are (schema, table) in server order.
const resourceColumn = 1

// ListTables lists the tables of schema (or of the current schema when empty).
// The result is keyed by the lowercased table name; when two tables differ
// only in case the later row wins.
func (i *Introspector) ListTables(ctx context.Context, schema string) (map[string]*core.TableDescriptor, error) {
	g := i.dialect.Grammar()

	rows, err := i.q.Select(ctx, g.ShowTables(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make(map[string]*core.TableDescriptor, len(rows))
	for n, row := range rows {
		if len(row.Values) <= resourceColumn {
			return nil, fmt.Errorf("failed to list tables: row %d has %d columns, expected at least %d", n, len(row.Values), resourceColumn+1)
		}
		resource := asString(row.At(resourceColumn))

		desc := &core.TableDescriptor{
			SchemaName:   schema,
			ResourceName: resource,
			Name:         resource,
			InternalName: resource,
			QuotedName:   g.QuoteIdentifier(resource),
		}
		if schema != "" {
			desc.InternalName = schema + "." + resource
			desc.QuotedName = g.QuoteTableName(schema) + "." + g.QuoteIdentifier(resource)
		}
		tables[strings.ToLower(desc.Name)] = desc
	}
	return tables, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
