package dictionary

import (
	"bytes"
	"encoding/json"
)

// entityOnlyFields are dropped from value-store entries: a value entry
// identifies the entity and one value, nothing more.
var entityOnlyFields = []string{
	"Definition",
	"EntityName",
	"EntityRelationships",
	"CompleteEntityRelationshipsGraph",
	"Columns",
}

// Projector applies an engine's field exclusions to serialized artifacts.
// Excluded fields are removed from the top level of every entity and, under
// both their own name and a "Foreign"-prefixed variant, from every nested
// relationship record. One Projector serves a whole run (one engine).
type Projector struct {
	excluded []string
}

// NewProjector builds a Projector from the connector's excluded field list.
func NewProjector(excludedFields []string) *Projector {
	return &Projector{excluded: excludedFields}
}

// EntityJSON serializes one entity with exclusions applied.
func (p *Projector) EntityJSON(entity *EntityItem) ([]byte, error) {
	m, err := p.projectEntity(entity)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, "", "    ")
}

// CombinedJSON serializes all entities as one array with exclusions applied.
func (p *Projector) CombinedJSON(entities []*EntityItem) ([]byte, error) {
	projected := make([]map[string]any, 0, len(entities))
	for _, entity := range entities {
		m, err := p.projectEntity(entity)
		if err != nil {
			return nil, err
		}
		projected = append(projected, m)
	}
	return json.MarshalIndent(projected, "", "    ")
}

// ValueStoreJSONL serializes one column's distinct values as JSON Lines, one
// record per value: the entity-identifying fields (post-exclusion) plus
// {FQN: "<entityFQN>.<column>", Column, Value, Synonyms: []}.
func (p *Projector) ValueStoreJSONL(entity *EntityItem, column *ColumnItem) ([]byte, error) {
	base, err := p.projectEntity(entity)
	if err != nil {
		return nil, err
	}
	for _, field := range entityOnlyFields {
		delete(base, field)
	}
	base["FQN"] = entity.FQN() + "." + column.Name
	base["Column"] = column.Name
	base["Synonyms"] = []string{}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, value := range column.DistinctValues {
		base["Value"] = value
		if err := enc.Encode(base); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// projectEntity marshals the entity and removes the excluded fields from the
// resulting map, recursing into the nested relationship records.
func (p *Projector) projectEntity(entity *EntityItem) (map[string]any, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	for _, field := range p.excluded {
		delete(m, field)
	}

	if rels, ok := m["EntityRelationships"].([]any); ok {
		for _, rel := range rels {
			relMap, ok := rel.(map[string]any)
			if !ok {
				continue
			}
			for _, field := range p.excluded {
				delete(relMap, field)
				delete(relMap, "Foreign"+field)
			}
		}
	}

	return m, nil
}
