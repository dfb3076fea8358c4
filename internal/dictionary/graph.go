package dictionary

import (
	"maps"
	"slices"
	"strings"
)

// Graph is the directed relationship graph: nodes are entity FQNs, and one
// unlabeled edge exists per distinct (source, target) pair in the registry.
// It lives for a single extraction run and is discarded once join paths have
// been enumerated.
type Graph struct {
	nodes map[string]bool
	succ  map[string][]string
	edges map[string]map[string]bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		succ:  make(map[string][]string),
		edges: make(map[string]map[string]bool),
	}
}

// BuildGraph projects the registry's edges onto a fresh graph.
func BuildGraph(reg *Registry) *Graph {
	g := NewGraph()
	reg.forEachEdge(g.AddEdge)
	return g
}

// AddEdge inserts a directed edge, registering both endpoints as nodes.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.nodes[from] = true
	g.nodes[to] = true
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]bool)
	}
	if g.edges[from][to] {
		return
	}
	g.edges[from][to] = true
	g.succ[from] = append(g.succ[from], to)
}

// HasEdge reports whether the directed edge from → to exists.
func (g *Graph) HasEdge(from, to string) bool {
	return g.edges[from][to]
}

// Successors returns the targets of node's outgoing edges, sorted for
// deterministic traversal.
func (g *Graph) Successors(node string) []string {
	out := slices.Clone(g.succ[node])
	slices.Sort(out)
	return out
}

// JoinPaths enumerates every maximal acyclic path starting at the given
// entity, rendered as "A -> B -> C" strings. Each branch carries its own
// copy of the visited set, so distinct paths may reuse a node that a sibling
// branch already consumed, but no path revisits its own nodes. A self-edge
// on the start yields a single "E -> E" entry and is never chained through.
// An entity absent from the graph yields no paths.
//
// Enumeration is exponential in the branching factor; schema graphs are
// small and this runs once per extraction, so that is acceptable.
func (g *Graph) JoinPaths(start string) []string {
	if !g.nodes[start] {
		return nil
	}
	var result []string
	g.walk(start, []string{start}, make(map[string]bool), &result)
	return result
}

func (g *Graph) walk(node string, path []string, visited map[string]bool, result *[]string) {
	visited[node] = true

	var unvisited []string
	for _, successor := range g.Successors(node) {
		if !visited[successor] {
			unvisited = append(unvisited, successor)
		}
	}

	if len(path) == 1 && g.HasEdge(node, node) {
		*result = append(*result, node+" -> "+node)
	}

	if len(unvisited) == 0 {
		if len(path) > 1 {
			*result = append(*result, strings.Join(path, " -> "))
		}
		return
	}

	for _, successor := range unvisited {
		branch := append(slices.Clone(path), successor)
		g.walk(successor, branch, maps.Clone(visited), result)
	}
}
