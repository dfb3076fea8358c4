package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koralov/sqldict/internal/connector"
)

func TestExcludedFields(t *testing.T) {
	c := &Connector{}
	assert.Equal(t, []string{"Warehouse", "Catalog"}, c.ExcludedFields())
	assert.Equal(t, connector.EnginePostgres, c.Engine())
}

func TestDiscoveryQueriesFilterSystemSchemas(t *testing.T) {
	c := &Connector{}
	for _, q := range []string{c.TableEntitiesQuery(), c.ViewEntitiesQuery(), c.EntityRelationshipsQuery()} {
		assert.Contains(t, q, "'pg_catalog'")
		assert.Contains(t, q, "'information_schema'")
	}
}

func TestColumnsQueryQuotesLiterals(t *testing.T) {
	c := &Connector{}
	q := c.ColumnsQuery("sales", "o'brien")
	assert.Contains(t, q, "'sales'")
	assert.Contains(t, q, "'o''brien'")
}

func TestEntityRelationshipsQueryPairsColumnsByPosition(t *testing.T) {
	q := (&Connector{}).EntityRelationshipsQuery()

	// Composite keys must pair the referencing and referenced columns by
	// their position in the constraint's key arrays, one row per pair.
	assert.Contains(t, q, "pg_constraint")
	assert.Contains(t, q, "unnest(con.conkey, con.confkey) WITH ORDINALITY")
	assert.Contains(t, q, "att.attnum  = cols.attnum")
	assert.Contains(t, q, "fatt.attnum = cols.fattnum")

	// The referenced table's schema is taken from its own namespace, so
	// cross-schema references survive.
	assert.Contains(t, q, "fns.nspname  AS foreign_entity_schema")

	// constraint_column_usage carries no ordinal position and cannot pair
	// composite keys; it must not come back.
	assert.NotContains(t, q, "constraint_column_usage")
}

func TestDistinctValuesQuery(t *testing.T) {
	c := &Connector{}
	assert.Equal(t,
		`SELECT DISTINCT "status" FROM "sales"."orders" WHERE "status" IS NOT NULL ORDER BY "status" DESC`,
		c.DistinctValuesQuery("sales", "orders", "status"))
}
