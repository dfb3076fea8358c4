package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBuilder(t *testing.T) {
	tests := []struct {
		name  string
		build func() string
		want  string
	}{
		{
			name: "select star",
			build: func() string {
				return Select("sales", "orders", DialectPostgres).Build()
			},
			want: `SELECT * FROM "sales"."orders"`,
		},
		{
			name: "distinct column with not null and order",
			build: func() string {
				return Select("sales", "orders", DialectPostgres).
					Distinct().
					Columns("status").
					WhereNotNull("status").
					OrderBy("status", Desc).
					Build()
			},
			want: `SELECT DISTINCT "status" FROM "sales"."orders" WHERE "status" IS NOT NULL ORDER BY "status" DESC`,
		},
		{
			name: "mysql backtick quoting",
			build: func() string {
				return Select("shop", "order", DialectMySQL).
					Columns("id", "status").
					Build()
			},
			want: "SELECT `id`, `status` FROM `shop`.`order`",
		},
		{
			name: "sqlite drops schema qualifier",
			build: func() string {
				return Select("main", "orders", DialectSQLite).
					Columns("status").
					Build()
			},
			want: `SELECT "status" FROM "orders"`,
		},
		{
			name: "empty schema omits qualifier",
			build: func() string {
				return Select("", "orders", DialectPostgres).Build()
			},
			want: `SELECT * FROM "orders"`,
		},
		{
			name: "multiple not null conditions",
			build: func() string {
				return Select("sales", "orders", DialectPostgres).
					WhereNotNull("status").
					WhereNotNull("region").
					Build()
			},
			want: `SELECT * FROM "sales"."orders" WHERE "status" IS NOT NULL AND "region" IS NOT NULL`,
		},
		{
			name: "ascending order",
			build: func() string {
				return Select("sales", "orders", DialectPostgres).
					OrderBy("id", Asc).
					Build()
			},
			want: `SELECT * FROM "sales"."orders" ORDER BY "id" ASC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build())
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"order"`, QuoteIdent("order", DialectPostgres))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`, DialectPostgres))
	assert.Equal(t, "`order`", QuoteIdent("order", DialectMySQL))
	assert.Equal(t, "`a``b`", QuoteIdent("a`b", DialectMySQL))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'orders'", QuoteLiteral("orders"))
	assert.Equal(t, "'o''brien'", QuoteLiteral("o'brien"))
}

func TestDefaultDistinctValuesQuery(t *testing.T) {
	got := DefaultDistinctValuesQuery(DialectPostgres, "sales", "orders", "status")
	assert.Equal(t,
		`SELECT DISTINCT "status" FROM "sales"."orders" WHERE "status" IS NOT NULL ORDER BY "status" DESC`,
		got)

	got = DefaultDistinctValuesQuery(DialectSQLite, "main", "orders", "status")
	assert.Equal(t,
		`SELECT DISTINCT "status" FROM "orders" WHERE "status" IS NOT NULL ORDER BY "status" DESC`,
		got)
}
