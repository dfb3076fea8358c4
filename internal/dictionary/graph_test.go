package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddEdgeDeduplicates(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")

	assert.True(t, g.HasEdge("A", "B"))
	assert.False(t, g.HasEdge("B", "A"))
	assert.Equal(t, []string{"B"}, g.Successors("A"))
}

func TestJoinPathsChain(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")

	assert.Equal(t, []string{"A -> B -> C"}, g.JoinPaths("A"))
	assert.Equal(t, []string{"B -> C"}, g.JoinPaths("B"))
	assert.Empty(t, g.JoinPaths("C"))
}

func TestJoinPathsBranching(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("C", "D")

	assert.Equal(t, []string{"A -> B", "A -> C -> D"}, g.JoinPaths("A"))
}

func TestJoinPathsMirroredPair(t *testing.T) {
	// Registry mirroring yields both directions; a path never walks back.
	g := NewGraph()
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")

	assert.Equal(t, []string{"A -> B"}, g.JoinPaths("A"))
	assert.Equal(t, []string{"B -> A"}, g.JoinPaths("B"))
}

func TestJoinPathsSelfReference(t *testing.T) {
	g := NewGraph()
	g.AddEdge("E", "E")

	assert.Equal(t, []string{"E -> E"}, g.JoinPaths("E"))
}

func TestJoinPathsSelfReferenceWithNeighbors(t *testing.T) {
	g := NewGraph()
	g.AddEdge("E", "E")
	g.AddEdge("E", "B")

	// The self-join entry appears once; the self-edge is never chained into
	// longer paths.
	assert.Equal(t, []string{"E -> E", "E -> B"}, g.JoinPaths("E"))
}

func TestJoinPathsUnknownEntity(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B")

	assert.Nil(t, g.JoinPaths("Z"))
}

func TestJoinPathsSiblingBranchesReuseNodes(t *testing.T) {
	// D is reachable through both B and C; each branch carries its own
	// visited set, so both paths are enumerated.
	g := NewGraph()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")

	assert.Equal(t, []string{"A -> B -> D", "A -> C -> D"}, g.JoinPaths("A"))
}

func TestBuildGraphFromRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Merge(&EntityRelationship{
		Entity:              "Orders",
		EntitySchema:        "dbo",
		ForeignEntity:       "Customers",
		ForeignEntitySchema: "dbo",
		ForeignKeys:         []ForeignKeyRelationship{{Column: "customer_id", ForeignColumn: "id"}},
	})

	g := BuildGraph(reg)

	require.True(t, g.HasEdge("dbo.Orders", "dbo.Customers"))
	require.True(t, g.HasEdge("dbo.Customers", "dbo.Orders"))
	assert.Equal(t, []string{"dbo.Orders -> dbo.Customers"}, g.JoinPaths("dbo.Orders"))
	assert.Equal(t, []string{"dbo.Customers -> dbo.Orders"}, g.JoinPaths("dbo.Customers"))
}
