package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koralov/sqldict/internal/connector"
)

func TestExcludedFields(t *testing.T) {
	c := &Connector{}
	assert.Equal(t, []string{"Warehouse", "Catalog", "Database"}, c.ExcludedFields())
	assert.Equal(t, connector.EngineSQLite, c.Engine())
}

func TestTableEntitiesQuerySkipsInternalTables(t *testing.T) {
	q := (&Connector{}).TableEntitiesQuery()
	assert.Contains(t, q, "NOT LIKE 'sqlite_%'")
	assert.Contains(t, q, "'main' AS entity_schema")
}

func TestEntityRelationshipsQueryResolvesImplicitReferences(t *testing.T) {
	q := (&Connector{}).EntityRelationshipsQuery()

	// An implicit reference ("REFERENCES parent" with no column list) must
	// resolve each clause row to the parent PK column at the same position:
	// fk.seq is 0-based, pragma_table_info's pk is 1-based.
	assert.Contains(t, q, `COALESCE(`)
	assert.Contains(t, q, "p.pk = fk.seq + 1")
	assert.Contains(t, q, "pragma_foreign_key_list(m.name)")
}

func TestDistinctValuesQueryDropsSchemaQualifier(t *testing.T) {
	c := &Connector{}
	assert.Equal(t,
		`SELECT DISTINCT "status" FROM "orders" WHERE "status" IS NOT NULL ORDER BY "status" DESC`,
		c.DistinctValuesQuery("main", "orders", "status"))
}
