package dictionary

import "sort"

// Registry indexes foreign-key relationships by entity FQN, then by foreign
// entity FQN. It maintains one invariant: every stored edge has an exact
// mirror in the opposite direction whose foreign keys are column-swapped,
// and both sides are updated by a single Merge call.
//
// The registry is populated strictly before any concurrent entity assembly
// starts; afterwards it is only read, so it needs no locking.
type Registry struct {
	rels map[string]map[string]*EntityRelationship
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rels: make(map[string]map[string]*EntityRelationship)}
}

// Merge folds rel into the registry: the forward edge and its pivot mirror
// are created or extended together. Multiple physical foreign keys between
// the same entity pair collapse into one edge with multiple key pairs;
// duplicate key pairs are suppressed.
func (r *Registry) Merge(rel *EntityRelationship) {
	r.mergeSide(rel.clone())
	r.mergeSide(rel.Pivot())
}

func (r *Registry) mergeSide(rel *EntityRelationship) {
	source, target := rel.FQN(), rel.ForeignFQN()

	byTarget, ok := r.rels[source]
	if !ok {
		byTarget = make(map[string]*EntityRelationship)
		r.rels[source] = byTarget
	}

	existing, ok := byTarget[target]
	if !ok {
		byTarget[target] = rel
		return
	}
	for _, fk := range rel.ForeignKeys {
		existing.AddForeignKey(fk)
	}
}

// Relationships returns the outgoing edges of the entity with the given FQN,
// ordered by foreign FQN for stable output. Missing entities yield nil.
func (r *Registry) Relationships(fqn string) []*EntityRelationship {
	byTarget, ok := r.rels[fqn]
	if !ok {
		return nil
	}
	out := make([]*EntityRelationship, 0, len(byTarget))
	for _, rel := range byTarget {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ForeignFQN() < out[j].ForeignFQN()
	})
	return out
}

// Lookup returns the edge from source to target, or nil.
func (r *Registry) Lookup(sourceFQN, targetFQN string) *EntityRelationship {
	return r.rels[sourceFQN][targetFQN]
}

// Len returns the number of directed edges held (mirrors counted separately).
func (r *Registry) Len() int {
	n := 0
	for _, byTarget := range r.rels {
		n += len(byTarget)
	}
	return n
}

// forEachEdge visits every directed (source, target) pair.
func (r *Registry) forEachEdge(fn func(source, target string)) {
	for source, byTarget := range r.rels {
		for target := range byTarget {
			fn(source, target)
		}
	}
}
