package dremio

import (
	"testing"

	"github.com/leapstack-labs/dremio-connector/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDremio_Registered(t *testing.T) {
	d, ok := dialect.Get("Dremio")
	require.True(t, ok, "dremio dialect should be registered by init()")
	assert.Same(t, Dremio, d)
	assert.Contains(t, dialect.List(), "dremio")
}

func TestDremio_Grammar(t *testing.T) {
	g := Dremio.Grammar()

	assert.Equal(t, `"space"."folder"."orders"`, g.QuoteTableName("space.folder.orders"))
	assert.Equal(t, `"say ""hi"""`, g.QuoteIdentifier(`say "hi"`))
	assert.Equal(t, "SHOW TABLES", g.ShowTables(""))
	assert.Equal(t, `SHOW TABLES IN "analytics"`, g.ShowTables("analytics"))

	stmt, err := g.SetSchema("public")
	require.NoError(t, err)
	assert.Equal(t, "SET SCHEMA PUBLIC", stmt)
}

func TestDremio_SelectUsesQuestionPlaceholders(t *testing.T) {
	g := Dremio.Grammar()

	query, args, err := g.Paginate(
		g.Select("analytics.orders", "id", "total").Where("id > ?", 10),
		25, 50,
	).ToSql()
	require.NoError(t, err)

	assert.Equal(t, `SELECT "id", "total" FROM "analytics"."orders" WHERE id > ? LIMIT 25 OFFSET 50`, query)
	assert.Equal(t, []any{10}, args)
}

func TestDremio_Config(t *testing.T) {
	cfg := Dremio.Config()
	assert.Equal(t, "dremio", cfg.Name)
	assert.Equal(t, "SET SCHEMA", cfg.SchemaSwitch)
	assert.Equal(t, "SHOW TABLES", cfg.ListTables)
	assert.Empty(t, cfg.DefaultSchema, "no default schema means the user's home space")
	assert.Contains(t, cfg.Keywords, "REFLECTION")
}
