// Package mysql provides the MySQL connector, backed by database/sql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver

	"github.com/koralov/sqldict/internal/connector"
	"github.com/koralov/sqldict/internal/errs"
)

// MySQL has no warehouse or catalog level; its schema IS the database.
var excludedFields = []string{"Warehouse", "Catalog"}

// Connector is a MySQL implementation of connector.Connector.
// It is safe for concurrent use by multiple goroutines.
type Connector struct {
	db *sql.DB
}

// New opens a MySQL connection pool using the provided Config and returns a
// Connector. It pings the server to validate the connection before returning.
func New(ctx context.Context, cfg *connector.Config) (*Connector, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "mysql: invalid DSN", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	c := &Connector{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "mysql: ping failed")
	}

	return c, nil
}

// --- connector.Connector implementation ---

func (c *Connector) Engine() connector.Engine {
	return connector.EngineMySQL
}

// Query executes a SQL statement that returns multiple rows.
func (c *Connector) Query(ctx context.Context, query string, args ...any) (connector.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "mysql: query failed")
	}
	return &mysqlRows{rows: rows}, nil
}

func (c *Connector) ExcludedFields() []string {
	return excludedFields
}

// TableEntitiesQuery returns Entity, EntitySchema, Definition for every base
// table in the connected database. Definition is the table comment.
func (c *Connector) TableEntitiesQuery() string {
	return `
		SELECT table_name    AS entity,
		       table_schema  AS entity_schema,
		       NULLIF(table_comment, '') AS definition
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`
}

// ViewEntitiesQuery returns Entity, EntitySchema, Definition for every view.
// Definition is the view's defining statement.
func (c *Connector) ViewEntitiesQuery() string {
	return `
		SELECT table_name      AS entity,
		       table_schema    AS entity_schema,
		       view_definition AS definition
		FROM information_schema.views
		WHERE table_schema = DATABASE()
		ORDER BY table_name`
}

// ColumnsQuery returns Name, DataType, Definition for one entity's columns.
// Definition is the column comment.
func (c *Connector) ColumnsQuery(schema, entity string) string {
	return fmt.Sprintf(`
		SELECT column_name AS name,
		       data_type   AS data_type,
		       NULLIF(column_comment, '') AS definition
		FROM information_schema.columns
		WHERE table_schema = %s
		  AND table_name   = %s
		ORDER BY ordinal_position`,
		connector.QuoteLiteral(schema), connector.QuoteLiteral(entity))
}

// EntityRelationshipsQuery returns EntitySchema, Entity, ForeignEntitySchema,
// ForeignEntity, Column, ForeignColumn for every foreign-key constraint.
func (c *Connector) EntityRelationshipsQuery() string {
	return `
		SELECT table_schema            AS entity_schema,
		       table_name              AS entity,
		       referenced_table_schema AS foreign_entity_schema,
		       referenced_table_name   AS foreign_entity,
		       column_name             AS column_name,
		       referenced_column_name  AS foreign_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema          = DATABASE()
		  AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name`
}

// DistinctValuesQuery uses the default template.
func (c *Connector) DistinctValuesQuery(schema, entity, column string) string {
	return connector.DefaultDistinctValuesQuery(connector.DialectMySQL, schema, entity, column)
}

// Close shuts down the connection pool.
func (c *Connector) Close() {
	_ = c.db.Close()
}

// --- sql.DB type wrappers ---

type mysqlRows struct {
	rows *sql.Rows
}

func (r *mysqlRows) Next() bool             { return r.rows.Next() }
func (r *mysqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *mysqlRows) Close()                 { _ = r.rows.Close() }
func (r *mysqlRows) Err() error             { return r.rows.Err() }
