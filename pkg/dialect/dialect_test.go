package dialect

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/dremio-connector/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDialect() *Dialect {
	return NewDialect("test").
		SchemaCase(NormUppercase).
		Keywords("select", "from").
		Build()
}

func TestQuoteIdentifier(t *testing.T) {
	d := testDialect()
	assert.Equal(t, `"orders"`, d.QuoteIdentifier("orders"))
	assert.Equal(t, `"a""b"`, d.QuoteIdentifier(`a"b`))

	brackets := NewDialect("brackets").Identifiers("[", "]", "]]", NormCaseSensitive).Build()
	assert.Equal(t, "[a]]b]", brackets.QuoteIdentifier("a]b"))
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := &core.DialectConfig{
		Name:            "custom",
		DefaultSchema:   "main",
		Placeholder:     core.PlaceholderDollar,
		Identifiers:     core.IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "``"},
		SchemaSwitch:    "USE",
		ListTables:      "SHOW TABLES",
		ListTablesScope: "FROM",
		Keywords:        []string{"select"},
	}

	d := New(cfg).Build()
	got := d.Config()

	assert.Equal(t, "custom", got.Name)
	assert.Equal(t, "main", got.DefaultSchema)
	assert.Equal(t, core.PlaceholderDollar, got.Placeholder)
	assert.Equal(t, "USE", got.SchemaSwitch)
	assert.Equal(t, "FROM", got.ListTablesScope)
	assert.Equal(t, []string{"SELECT"}, got.Keywords)
	assert.Equal(t, "SHOW TABLES FROM `main`", d.Grammar().ShowTables("main"))
}

func TestRegistry(t *testing.T) {
	d := NewDialect("Registry_Test").Build()
	Register(d)

	got, ok := Get("registry_test")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Contains(t, List(), "registry_test")

	_, ok = Get("missing")
	assert.False(t, ok)

	got, err := Lookup("REGISTRY_TEST")
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = Lookup("missing")
	var unknown *UnknownDialectError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.Contains(t, unknown.Available, "registry_test")
	assert.Contains(t, err.Error(), "Hint:")
}

func TestGrammar_SetSchema(t *testing.T) {
	g := testDialect().Grammar()

	tests := []struct {
		name    string
		schema  string
		want    string
		wantErr bool
	}{
		{name: "uppercased", schema: "public", want: "SET SCHEMA PUBLIC"},
		{name: "dotted path", schema: "Space.Folder", want: "SET SCHEMA SPACE.FOLDER"},
		{name: "empty", schema: "", wantErr: true},
		{name: "blank", schema: "  ", wantErr: true},
		{name: "statement separator", schema: "x; DROP TABLE y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.SetSchema(tt.schema)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrammar_SelectAndPaginate(t *testing.T) {
	g := NewDialect("pg").PlaceholderStyle(PlaceholderDollar).Build().Grammar()

	query, args, err := g.Paginate(g.Select("orders").Where("id = ?", 1), 0, 0).ToSql()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "orders" WHERE id = $1`, query)
	assert.Equal(t, []any{1}, args)

	query, _, err = g.Paginate(g.Select("orders", "id"), 10, 0).ToSql()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id" FROM "orders" LIMIT 10`, query)
}

func TestDefaultProcessor(t *testing.T) {
	d := testDialect()
	row := d.Processor().ProcessRow(
		[]string{"name", "count", "missing"},
		[]any{[]byte("orders"), int64(3), nil},
	)

	assert.Equal(t, []string{"name", "count", "missing"}, row.Columns)
	assert.Equal(t, []any{"orders", int64(3), nil}, row.Values)
}

type upperProcessor struct{}

func (upperProcessor) ProcessRow(columns []string, values []any) core.Row {
	return core.Row{Columns: columns, Values: append([]any{"X"}, values[1:]...)}
}

func TestWithProcessor(t *testing.T) {
	d := NewDialect("p").WithProcessor(upperProcessor{}).Build()
	row := d.Processor().ProcessRow([]string{"a", "b"}, []any{"a", "b"})
	assert.Equal(t, []any{"X", "b"}, row.Values)
}

// fakeQuerier returns canned rows and records the statement it ran.
type fakeQuerier struct {
	rows  []core.Row
	err   error
	query string
}

func (f *fakeQuerier) Select(_ context.Context, query string, _ ...any) ([]core.Row, error) {
	f.query = query
	return f.rows, f.err
}

func listingRow(schema, table string) core.Row {
	return core.Row{
		Columns: []string{"TABLE_SCHEMA", "TABLE_NAME"},
		Values:  []any{schema, table},
	}
}

func TestIntrospector_ListTables(t *testing.T) {
	q := &fakeQuerier{rows: []core.Row{
		listingRow("analytics", "Orders"),
		listingRow("analytics", "customers"),
	}}

	tables, err := NewIntrospector(testDialect(), q).ListTables(context.Background(), "analytics")
	require.NoError(t, err)

	assert.Equal(t, `SHOW TABLES IN "analytics"`, q.query)
	require.Len(t, tables, 2)

	orders := tables["orders"]
	require.NotNil(t, orders)
	assert.Equal(t, &core.TableDescriptor{
		SchemaName:   "analytics",
		ResourceName: "Orders",
		Name:         "Orders",
		InternalName: "analytics.Orders",
		QuotedName:   `"analytics"."Orders"`,
	}, orders)
}

func TestIntrospector_ListTables_CaseCollision(t *testing.T) {
	q := &fakeQuerier{rows: []core.Row{
		listingRow("analytics", "Orders"),
		listingRow("analytics", "orders"),
	}}

	tables, err := NewIntrospector(testDialect(), q).ListTables(context.Background(), "analytics")
	require.NoError(t, err)

	require.Len(t, tables, 1, "names that collide when lowercased collapse to one entry")
	assert.Equal(t, "orders", tables["orders"].ResourceName, "last row wins")
}

func TestIntrospector_ListTables_NoSchema(t *testing.T) {
	q := &fakeQuerier{rows: []core.Row{listingRow("@user", "scratch")}}

	tables, err := NewIntrospector(testDialect(), q).ListTables(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "SHOW TABLES", q.query)
	assert.Equal(t, "scratch", tables["scratch"].InternalName)
	assert.Equal(t, `"scratch"`, tables["scratch"].QuotedName)
}

func TestIntrospector_ListTables_Errors(t *testing.T) {
	q := &fakeQuerier{err: errors.New("boom")}
	_, err := NewIntrospector(testDialect(), q).ListTables(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	short := &fakeQuerier{rows: []core.Row{{Columns: []string{"TABLE_NAME"}, Values: []any{"t"}}}}
	_, err = NewIntrospector(testDialect(), short).ListTables(context.Background(), "x")
	assert.Error(t, err)
}
