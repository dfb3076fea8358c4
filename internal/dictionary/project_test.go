package dictionary

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectedOrders() *EntityItem {
	return &EntityItem{
		Entity:       "Orders",
		EntitySchema: "dbo",
		Definition:   strPtr("Customer orders"),
		Database:     strPtr("shop"),
		Warehouse:    strPtr("wh"),
		Catalog:      strPtr("cat"),
		EntityRelationships: []*EntityRelationship{
			{
				Entity:              "Orders",
				EntitySchema:        "dbo",
				Database:            strPtr("shop"),
				Warehouse:           strPtr("wh"),
				Catalog:             strPtr("cat"),
				ForeignEntity:       "Customers",
				ForeignEntitySchema: "dbo",
				ForeignDatabase:     strPtr("shop"),
				ForeignWarehouse:    strPtr("wh"),
				ForeignCatalog:      strPtr("cat"),
				ForeignKeys:         []ForeignKeyRelationship{{Column: "customer_id", ForeignColumn: "id"}},
			},
		},
		CompleteEntityRelationshipsGraph: []string{"wh.cat.shop.dbo.Orders -> wh.cat.shop.dbo.Customers"},
		Columns: []*ColumnItem{
			{Name: "status", DataType: "varchar", DistinctValues: []any{"open", "shipped"}},
		},
	}
}

func TestEntityJSONAppliesExclusions(t *testing.T) {
	p := NewProjector([]string{"Warehouse", "Catalog"})

	data, err := p.EntityJSON(projectedOrders())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.NotContains(t, m, "Warehouse")
	assert.NotContains(t, m, "Catalog")
	assert.Equal(t, "shop", m["Database"])
	assert.Equal(t, "Orders", m["Entity"])
	assert.Contains(t, m, "FQN")

	rels, ok := m["EntityRelationships"].([]any)
	require.True(t, ok)
	require.Len(t, rels, 1)
	rel := rels[0].(map[string]any)
	assert.NotContains(t, rel, "ForeignWarehouse")
	assert.NotContains(t, rel, "ForeignCatalog")
	assert.Equal(t, "shop", rel["ForeignDatabase"])
	assert.Equal(t, "Customers", rel["ForeignEntity"])
}

func TestEntityJSONNoExclusions(t *testing.T) {
	p := NewProjector(nil)

	data, err := p.EntityJSON(projectedOrders())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "wh", m["Warehouse"])
	assert.Equal(t, "cat", m["Catalog"])
}

func TestCombinedJSON(t *testing.T) {
	p := NewProjector([]string{"Warehouse", "Catalog"})

	data, err := p.CombinedJSON([]*EntityItem{projectedOrders(), projectedOrders()})
	require.NoError(t, err)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)
	for _, m := range list {
		assert.NotContains(t, m, "Warehouse")
		assert.Equal(t, "Orders", m["Entity"])
	}
}

func TestValueStoreJSONL(t *testing.T) {
	p := NewProjector([]string{"Warehouse", "Catalog"})
	entity := projectedOrders()
	column := entity.Columns[0]

	data, err := p.ValueStoreJSONL(entity, column)
	require.NoError(t, err)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	var lines []map[string]any
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "wh.cat.shop.dbo.Orders.status", first["FQN"])
	assert.Equal(t, "status", first["Column"])
	assert.Equal(t, "open", first["Value"])
	assert.Equal(t, []any{}, first["Synonyms"])
	assert.Equal(t, "Orders", first["Entity"])
	assert.Equal(t, "dbo", first["Schema"])
	assert.Equal(t, "shop", first["Database"])

	// Entity-only and excluded fields never reach the value store.
	for _, field := range []string{"Columns", "EntityRelationships", "CompleteEntityRelationshipsGraph", "Definition", "Warehouse", "Catalog"} {
		assert.NotContains(t, first, field)
	}

	assert.Equal(t, "shipped", lines[1]["Value"])
}

func TestValueStoreJSONLEmptyValues(t *testing.T) {
	p := NewProjector(nil)
	entity := projectedOrders()
	column := &ColumnItem{Name: "notes", DataType: "text"}

	data, err := p.ValueStoreJSONL(entity, column)
	require.NoError(t, err)
	assert.Empty(t, data)
}
