// Package sqlite provides the SQLite connector, backed by database/sql and
// the CGo-free modernc.org driver. SQLite has a single implicit schema, so
// every entity reports "main" as its schema.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/koralov/sqldict/internal/connector"
	"github.com/koralov/sqldict/internal/errs"
)

// SQLite has no warehouse, catalog, or database level above the file.
var excludedFields = []string{"Warehouse", "Catalog", "Database"}

// Connector is a SQLite implementation of connector.Connector.
// It is safe for concurrent use by multiple goroutines.
type Connector struct {
	db *sql.DB
}

// New opens a SQLite database using the provided Config and returns a
// Connector. It pings the database to validate the file before returning.
func New(ctx context.Context, cfg *connector.Config) (*Connector, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "sqlite: invalid DSN", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))

	c := &Connector{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "sqlite: ping failed")
	}

	return c, nil
}

// --- connector.Connector implementation ---

func (c *Connector) Engine() connector.Engine {
	return connector.EngineSQLite
}

// Query executes a SQL statement that returns multiple rows.
func (c *Connector) Query(ctx context.Context, query string, args ...any) (connector.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "sqlite: query failed")
	}
	return &sqliteRows{rows: rows}, nil
}

func (c *Connector) ExcludedFields() []string {
	return excludedFields
}

// TableEntitiesQuery returns Entity, EntitySchema, Definition for every user
// table. SQLite stores no table comments, so Definition is always NULL.
func (c *Connector) TableEntitiesQuery() string {
	return `
		SELECT m.name AS entity,
		       'main' AS entity_schema,
		       NULL   AS definition
		FROM sqlite_master m
		WHERE m.type = 'table'
		  AND m.name NOT LIKE 'sqlite_%'
		ORDER BY m.name`
}

// ViewEntitiesQuery returns Entity, EntitySchema, Definition for every view.
// Definition is the view's defining statement.
func (c *Connector) ViewEntitiesQuery() string {
	return `
		SELECT m.name AS entity,
		       'main' AS entity_schema,
		       m.sql  AS definition
		FROM sqlite_master m
		WHERE m.type = 'view'
		ORDER BY m.name`
}

// ColumnsQuery returns Name, DataType, Definition for one entity's columns.
func (c *Connector) ColumnsQuery(_, entity string) string {
	return fmt.Sprintf(`
		SELECT p.name AS name,
		       p.type AS data_type,
		       NULL   AS definition
		FROM pragma_table_info(%s) p
		ORDER BY p.cid`,
		connector.QuoteLiteral(entity))
}

// EntityRelationshipsQuery returns EntitySchema, Entity, ForeignEntitySchema,
// ForeignEntity, Column, ForeignColumn for every foreign-key clause.
// An implicit reference (no target column) resolves to the parent's primary
// key by position: fk.seq is 0-based within the clause and pragma_table_info's
// pk column is the 1-based position within the primary key.
func (c *Connector) EntityRelationshipsQuery() string {
	return `
		SELECT 'main'     AS entity_schema,
		       m.name     AS entity,
		       'main'     AS foreign_entity_schema,
		       fk."table" AS foreign_entity,
		       fk."from"  AS column_name,
		       COALESCE(
		           fk."to",
		           (SELECT p.name FROM pragma_table_info(fk."table") p WHERE p.pk = fk.seq + 1)
		       ) AS foreign_column_name
		FROM sqlite_master m
		JOIN pragma_foreign_key_list(m.name) fk
		WHERE m.type = 'table'
		ORDER BY m.name, fk.id, fk.seq`
}

// DistinctValuesQuery uses the default template. The SQLite dialect drops
// the schema qualifier.
func (c *Connector) DistinctValuesQuery(schema, entity, column string) string {
	return connector.DefaultDistinctValuesQuery(connector.DialectSQLite, schema, entity, column)
}

// Close shuts down the connection pool.
func (c *Connector) Close() {
	_ = c.db.Close()
}

// --- sql.DB type wrappers ---

type sqliteRows struct {
	rows *sql.Rows
}

func (r *sqliteRows) Next() bool             { return r.rows.Next() }
func (r *sqliteRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqliteRows) Close()                 { _ = r.rows.Close() }
func (r *sqliteRows) Err() error             { return r.rows.Err() }
