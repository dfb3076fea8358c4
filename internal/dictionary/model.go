// Package dictionary builds a cross-referenced data dictionary from a live
// relational schema: entities, columns with representative values, foreign-key
// relationships, and the enumerated join paths between entities.
package dictionary

import (
	"encoding/json"
	"math/rand/v2"
	"regexp"
	"strings"
)

// sampleSize is the maximum number of representative values kept per column.
const sampleSize = 5

// stringFamilyTypes mark column data types whose distinct values are worth
// persisting to the value store. Matched case-insensitively as substrings,
// so e.g. "character varying" and "NVARCHAR(50)" both qualify.
var stringFamilyTypes = []string{"string", "nchar", "text", "varchar"}

// controlWhitespace matches the whitespace control characters stripped from
// string values before they enter the value store.
var controlWhitespace = regexp.MustCompile(`[\t\n\r\f\v]+`)

// ForeignKeyRelationship is one column pair of a foreign-key edge.
type ForeignKeyRelationship struct {
	Column        string `json:"Column"`
	ForeignColumn string `json:"ForeignColumn"`
}

// EntityRelationship is a directed foreign-key edge between two entities.
// The local side is never serialized; consumers read it through FQN.
type EntityRelationship struct {
	Entity       string  `json:"-"`
	EntitySchema string  `json:"-"`
	Warehouse    *string `json:"-"`
	Catalog      *string `json:"-"`
	Database     *string `json:"-"`

	ForeignEntity       string  `json:"ForeignEntity"`
	ForeignEntitySchema string  `json:"ForeignSchema"`
	ForeignWarehouse    *string `json:"ForeignWarehouse,omitempty"`
	ForeignCatalog      *string `json:"ForeignCatalog,omitempty"`
	ForeignDatabase     *string `json:"ForeignDatabase,omitempty"`

	ForeignKeys []ForeignKeyRelationship `json:"ForeignKeys"`
}

// FQN returns the fully-qualified name of the local entity.
func (r *EntityRelationship) FQN() string {
	return joinFQN(r.Warehouse, r.Catalog, r.Database, r.EntitySchema, r.Entity)
}

// ForeignFQN returns the fully-qualified name of the foreign entity.
func (r *EntityRelationship) ForeignFQN() string {
	return joinFQN(r.ForeignWarehouse, r.ForeignCatalog, r.ForeignDatabase, r.ForeignEntitySchema, r.ForeignEntity)
}

// Pivot returns the reverse-direction mirror of the relationship: both ends
// swapped and every foreign-key pair column-swapped.
func (r *EntityRelationship) Pivot() *EntityRelationship {
	fks := make([]ForeignKeyRelationship, len(r.ForeignKeys))
	for i, fk := range r.ForeignKeys {
		fks[i] = ForeignKeyRelationship{
			Column:        fk.ForeignColumn,
			ForeignColumn: fk.Column,
		}
	}
	return &EntityRelationship{
		Entity:       r.ForeignEntity,
		EntitySchema: r.ForeignEntitySchema,
		Warehouse:    r.ForeignWarehouse,
		Catalog:      r.ForeignCatalog,
		Database:     r.ForeignDatabase,

		ForeignEntity:       r.Entity,
		ForeignEntitySchema: r.EntitySchema,
		ForeignWarehouse:    r.Warehouse,
		ForeignCatalog:      r.Catalog,
		ForeignDatabase:     r.Database,

		ForeignKeys: fks,
	}
}

// AddForeignKey appends fk unless an identical column pair is already present.
func (r *EntityRelationship) AddForeignKey(fk ForeignKeyRelationship) {
	for _, existing := range r.ForeignKeys {
		if existing == fk {
			return
		}
	}
	r.ForeignKeys = append(r.ForeignKeys, fk)
}

// clone returns a deep copy so registry entries never alias caller state.
func (r *EntityRelationship) clone() *EntityRelationship {
	dup := *r
	dup.ForeignKeys = make([]ForeignKeyRelationship, len(r.ForeignKeys))
	copy(dup.ForeignKeys, r.ForeignKeys)
	return &dup
}

// MarshalJSON emits the serialized fields plus the computed FQNs.
func (r *EntityRelationship) MarshalJSON() ([]byte, error) {
	type alias EntityRelationship
	return json.Marshal(struct {
		*alias
		FQN        string `json:"FQN"`
		ForeignFQN string `json:"ForeignFQN"`
	}{(*alias)(r), r.FQN(), r.ForeignFQN()})
}

// ColumnItem describes one column of an entity. DistinctValues is held only
// while the extraction run is in flight; it never reaches the schema store.
type ColumnItem struct {
	Name           string  `json:"Name"`
	DataType       string  `json:"DataType"`
	Definition     *string `json:"Definition"`
	DistinctValues []any   `json:"-"`
	SampleValues   []any   `json:"SampleValues,omitempty"`
}

// IsStringFamily reports whether the column's declared type is string-like,
// which makes its distinct values eligible for the value store.
func (c *ColumnItem) IsStringFamily() bool {
	dt := strings.ToLower(c.DataType)
	for _, family := range stringFamilyTypes {
		if strings.Contains(dt, family) {
			return true
		}
	}
	return false
}

// sample fills SampleValues from DistinctValues: a uniform random sample of
// sampleSize when there are more, the full set otherwise.
func (c *ColumnItem) sample() {
	if c.DistinctValues == nil {
		return
	}
	if len(c.DistinctValues) <= sampleSize {
		c.SampleValues = c.DistinctValues
		return
	}
	picked := make([]any, 0, sampleSize)
	for _, i := range rand.Perm(len(c.DistinctValues))[:sampleSize] {
		picked = append(picked, c.DistinctValues[i])
	}
	c.SampleValues = picked
}

// EntityItem is one table or view of the source schema, fully assembled.
type EntityItem struct {
	Entity       string  `json:"Entity"`
	EntitySchema string  `json:"Schema"`
	Definition   *string `json:"Definition"`
	EntityName   string  `json:"EntityName,omitempty"`

	Database  *string `json:"Database,omitempty"`
	Warehouse *string `json:"Warehouse,omitempty"`
	Catalog   *string `json:"Catalog,omitempty"`

	EntityRelationships []*EntityRelationship `json:"EntityRelationships"`

	// CompleteEntityRelationshipsGraph holds the rendered join paths
	// reachable from this entity, e.g. "Orders -> Customers".
	CompleteEntityRelationshipsGraph []string `json:"CompleteEntityRelationshipsGraph"`

	Columns []*ColumnItem `json:"Columns"`
}

// FQN returns the fully-qualified entity name: the non-nil identifiers of
// {warehouse, catalog, database, schema, entity} joined with "." in that
// fixed order.
func (e *EntityItem) FQN() string {
	return joinFQN(e.Warehouse, e.Catalog, e.Database, e.EntitySchema, e.Entity)
}

// MarshalJSON emits the entity plus its computed FQN.
func (e *EntityItem) MarshalJSON() ([]byte, error) {
	type alias EntityItem
	return json.Marshal(struct {
		*alias
		FQN string `json:"FQN"`
	}{(*alias)(e), e.FQN()})
}

func joinFQN(warehouse, catalog, database *string, schema, entity string) string {
	segments := make([]string, 0, 5)
	for _, p := range []*string{warehouse, catalog, database} {
		if p != nil {
			segments = append(segments, *p)
		}
	}
	if schema != "" {
		segments = append(segments, schema)
	}
	segments = append(segments, entity)
	return strings.Join(segments, ".")
}

// normalizeValue prepares a scanned database value for the dictionary:
// byte slices become strings, and whitespace control characters are
// stripped from string values. Non-string values pass through unchanged.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if s, ok := v.(string); ok {
		return controlWhitespace.ReplaceAllString(s, "")
	}
	return v
}
