package connector

import (
	"fmt"
	"strings"
)

// Dialect controls identifier quoting and placeholder style.
type Dialect int

const (
	// DialectPostgres quotes identifiers with double quotes.
	DialectPostgres Dialect = iota

	// DialectMySQL quotes identifiers with backticks.
	DialectMySQL

	// DialectSQLite quotes identifiers with double quotes and has no
	// schema qualifier.
	DialectSQLite
)

// SortDirection controls the ORDER BY direction.
type SortDirection bool

const (
	Asc  SortDirection = false
	Desc SortDirection = true
)

// SelectBuilder constructs a SELECT statement for schema discovery queries.
// Identifiers are always quoted for the dialect; values never appear in the
// statement (the discovery queries filter only on IS NOT NULL).
//
// Usage:
//
//	sql := Select("sales", "orders", DialectPostgres).
//	    Distinct().
//	    Columns("status").
//	    WhereNotNull("status").
//	    OrderBy("status", Desc).
//	    Build()
type SelectBuilder struct {
	schema   string
	table    string
	dialect  Dialect
	distinct bool
	columns  []string
	notNull  []string
	orderBy  []orderClause
}

type orderClause struct {
	column string
	dir    SortDirection
}

// Select starts a new SelectBuilder for the given schema, table, and dialect.
// An empty schema omits the qualifier.
func Select(schema, table string, d Dialect) *SelectBuilder {
	return &SelectBuilder{schema: schema, table: table, dialect: d}
}

// Distinct adds the DISTINCT keyword.
func (b *SelectBuilder) Distinct() *SelectBuilder {
	b.distinct = true
	return b
}

// Columns restricts the SELECT to the specified columns.
// If not called, SELECT * is used.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = cols
	return b
}

// WhereNotNull adds a "column IS NOT NULL" condition.
// Multiple calls are combined with AND.
func (b *SelectBuilder) WhereNotNull(column string) *SelectBuilder {
	b.notNull = append(b.notNull, column)
	return b
}

// OrderBy appends an ORDER BY clause for the given column and direction.
func (b *SelectBuilder) OrderBy(column string, dir SortDirection) *SelectBuilder {
	b.orderBy = append(b.orderBy, orderClause{column, dir})
	return b
}

// Build produces the final SQL string.
func (b *SelectBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}

	cols := "*"
	if len(b.columns) > 0 {
		quoted := make([]string, len(b.columns))
		for i, c := range b.columns {
			quoted[i] = QuoteIdent(c, b.dialect)
		}
		cols = strings.Join(quoted, ", ")
	}
	sb.WriteString(cols)

	sb.WriteString(" FROM ")
	if b.schema != "" && b.dialect != DialectSQLite {
		sb.WriteString(QuoteIdent(b.schema, b.dialect))
		sb.WriteString(".")
	}
	sb.WriteString(QuoteIdent(b.table, b.dialect))

	if len(b.notNull) > 0 {
		parts := make([]string, len(b.notNull))
		for i, c := range b.notNull {
			parts[i] = fmt.Sprintf("%s IS NOT NULL", QuoteIdent(c, b.dialect))
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orderBy) > 0 {
		parts := make([]string, len(b.orderBy))
		for i, o := range b.orderBy {
			dir := "ASC"
			if o.dir == Desc {
				dir = "DESC"
			}
			parts[i] = fmt.Sprintf("%s %s", QuoteIdent(o.column, b.dialect), dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	return sb.String()
}

// QuoteIdent wraps a SQL identifier in the dialect's quoting style.
// This safely handles reserved words and mixed-case names.
func QuoteIdent(name string, d Dialect) string {
	if d == DialectMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral wraps a string literal in single quotes, doubling any
// embedded quote. Used where discovery templates must embed an entity or
// schema name as a value rather than an identifier.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// DefaultDistinctValuesQuery is the default template for extracting the
// distinct non-null values of a column, descending. Engines embed it in
// their DistinctValuesQuery unless they need a custom form.
func DefaultDistinctValuesQuery(d Dialect, schema, entity, column string) string {
	return Select(schema, entity, d).
		Distinct().
		Columns(column).
		WhereNotNull(column).
		OrderBy(column, Desc).
		Build()
}
