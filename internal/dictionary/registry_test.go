package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersToCustomers() *EntityRelationship {
	return &EntityRelationship{
		Entity:              "Orders",
		EntitySchema:        "dbo",
		ForeignEntity:       "Customers",
		ForeignEntitySchema: "dbo",
		ForeignKeys:         []ForeignKeyRelationship{{Column: "customer_id", ForeignColumn: "id"}},
	}
}

func TestRegistryMergeCreatesMirror(t *testing.T) {
	reg := NewRegistry()
	reg.Merge(ordersToCustomers())

	forward := reg.Lookup("dbo.Orders", "dbo.Customers")
	require.NotNil(t, forward)
	assert.Equal(t, []ForeignKeyRelationship{{Column: "customer_id", ForeignColumn: "id"}}, forward.ForeignKeys)

	mirror := reg.Lookup("dbo.Customers", "dbo.Orders")
	require.NotNil(t, mirror)
	assert.Equal(t, []ForeignKeyRelationship{{Column: "id", ForeignColumn: "customer_id"}}, mirror.ForeignKeys)

	assert.Equal(t, 2, reg.Len())
}

func TestRegistryMergeIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.Merge(ordersToCustomers())
	reg.Merge(ordersToCustomers())

	assert.Equal(t, 2, reg.Len())
	forward := reg.Lookup("dbo.Orders", "dbo.Customers")
	require.NotNil(t, forward)
	assert.Len(t, forward.ForeignKeys, 1)
}

func TestRegistryMergeCollapsesParallelKeys(t *testing.T) {
	reg := NewRegistry()
	reg.Merge(ordersToCustomers())

	second := ordersToCustomers()
	second.ForeignKeys = []ForeignKeyRelationship{{Column: "billing_customer_id", ForeignColumn: "id"}}
	reg.Merge(second)

	// Still one edge per direction, now carrying both key pairs.
	assert.Equal(t, 2, reg.Len())

	forward := reg.Lookup("dbo.Orders", "dbo.Customers")
	require.NotNil(t, forward)
	assert.Equal(t, []ForeignKeyRelationship{
		{Column: "customer_id", ForeignColumn: "id"},
		{Column: "billing_customer_id", ForeignColumn: "id"},
	}, forward.ForeignKeys)

	mirror := reg.Lookup("dbo.Customers", "dbo.Orders")
	require.NotNil(t, mirror)
	assert.Equal(t, []ForeignKeyRelationship{
		{Column: "id", ForeignColumn: "customer_id"},
		{Column: "id", ForeignColumn: "billing_customer_id"},
	}, mirror.ForeignKeys)
}

func TestRegistryMergeDoesNotAliasInput(t *testing.T) {
	reg := NewRegistry()
	rel := ordersToCustomers()
	reg.Merge(rel)

	rel.ForeignKeys[0].Column = "mutated"

	forward := reg.Lookup("dbo.Orders", "dbo.Customers")
	require.NotNil(t, forward)
	assert.Equal(t, "customer_id", forward.ForeignKeys[0].Column)
}

func TestRegistryRelationshipsSorted(t *testing.T) {
	reg := NewRegistry()

	for _, target := range []string{"Zones", "Customers", "Products"} {
		reg.Merge(&EntityRelationship{
			Entity:              "Orders",
			EntitySchema:        "dbo",
			ForeignEntity:       target,
			ForeignEntitySchema: "dbo",
			ForeignKeys:         []ForeignKeyRelationship{{Column: "x", ForeignColumn: "y"}},
		})
	}

	rels := reg.Relationships("dbo.Orders")
	require.Len(t, rels, 3)
	assert.Equal(t, "dbo.Customers", rels[0].ForeignFQN())
	assert.Equal(t, "dbo.Products", rels[1].ForeignFQN())
	assert.Equal(t, "dbo.Zones", rels[2].ForeignFQN())
}

func TestRegistryRelationshipsUnknownEntity(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Relationships("dbo.Nothing"))
}
