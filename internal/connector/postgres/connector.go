// Package postgres provides the PostgreSQL connector, backed by pgxpool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koralov/sqldict/internal/connector"
	"github.com/koralov/sqldict/internal/errs"
)

// Postgres has no warehouse or catalog level in its hierarchy.
var excludedFields = []string{"Warehouse", "Catalog"}

// systemSchemas are never part of a user schema's dictionary.
const systemSchemas = `('pg_catalog', 'information_schema')`

// Connector is a PostgreSQL implementation of connector.Connector.
// It is safe for concurrent use by multiple goroutines.
type Connector struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL using the provided Config and returns a
// Connector. It pings the server to validate the connection before returning.
func New(ctx context.Context, cfg *connector.Config) (*Connector, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "postgres: invalid DSN", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "postgres: failed to create connection pool", err)
	}

	c := &Connector{pool: pool}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapError(err, "postgres: ping failed")
	}

	return c, nil
}

// --- connector.Connector implementation ---

func (c *Connector) Engine() connector.Engine {
	return connector.EnginePostgres
}

// Query executes a SQL statement that returns multiple rows.
func (c *Connector) Query(ctx context.Context, sql string, args ...any) (connector.Rows, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "postgres: query failed")
	}
	return &pgxRows{rows: rows}, nil
}

func (c *Connector) ExcludedFields() []string {
	return excludedFields
}

// TableEntitiesQuery returns Entity, EntitySchema, Definition for every
// user-defined base table. Definition is the table's comment, if any.
func (c *Connector) TableEntitiesQuery() string {
	return `
		SELECT t.table_name  AS entity,
		       t.table_schema AS entity_schema,
		       obj_description(format('%I.%I', t.table_schema, t.table_name)::regclass, 'pg_class') AS definition
		FROM information_schema.tables t
		WHERE t.table_type = 'BASE TABLE'
		  AND t.table_schema NOT IN ` + systemSchemas + `
		ORDER BY t.table_schema, t.table_name`
}

// ViewEntitiesQuery returns Entity, EntitySchema, Definition for every view.
// Definition is the view's defining statement.
func (c *Connector) ViewEntitiesQuery() string {
	return `
		SELECT v.table_name   AS entity,
		       v.table_schema AS entity_schema,
		       v.view_definition AS definition
		FROM information_schema.views v
		WHERE v.table_schema NOT IN ` + systemSchemas + `
		ORDER BY v.table_schema, v.table_name`
}

// ColumnsQuery returns Name, DataType, Definition for one entity's columns.
// Definition is the column's comment, if any.
func (c *Connector) ColumnsQuery(schema, entity string) string {
	return fmt.Sprintf(`
		SELECT c.column_name AS name,
		       c.data_type   AS data_type,
		       col_description(format('%%I.%%I', c.table_schema, c.table_name)::regclass, c.ordinal_position) AS definition
		FROM information_schema.columns c
		WHERE c.table_schema = %s
		  AND c.table_name   = %s
		ORDER BY c.ordinal_position`,
		connector.QuoteLiteral(schema), connector.QuoteLiteral(entity))
}

// EntityRelationshipsQuery returns EntitySchema, Entity, ForeignEntitySchema,
// ForeignEntity, Column, ForeignColumn for every foreign-key constraint.
// pg_constraint keeps the referencing and referenced key arrays in matching
// order, so unnesting both with one ordinality pairs columns position by
// position; composite keys yield one row per pair and the referenced table's
// schema is reported even when it differs from the referencing one.
func (c *Connector) EntityRelationshipsQuery() string {
	return `
		SELECT ns.nspname   AS entity_schema,
		       cl.relname   AS entity,
		       fns.nspname  AS foreign_entity_schema,
		       fcl.relname  AS foreign_entity,
		       att.attname  AS column_name,
		       fatt.attname AS foreign_column_name
		FROM pg_constraint con
		JOIN pg_class cl      ON cl.oid = con.conrelid
		JOIN pg_namespace ns  ON ns.oid = cl.relnamespace
		JOIN pg_class fcl     ON fcl.oid = con.confrelid
		JOIN pg_namespace fns ON fns.oid = fcl.relnamespace
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS cols(attnum, fattnum, ord)
		JOIN pg_attribute att  ON att.attrelid  = con.conrelid  AND att.attnum  = cols.attnum
		JOIN pg_attribute fatt ON fatt.attrelid = con.confrelid AND fatt.attnum = cols.fattnum
		WHERE con.contype = 'f'
		  AND ns.nspname NOT IN ` + systemSchemas + `
		ORDER BY con.conname, cols.ord`
}

// DistinctValuesQuery uses the default template.
func (c *Connector) DistinctValuesQuery(schema, entity, column string) string {
	return connector.DefaultDistinctValuesQuery(connector.DialectPostgres, schema, entity, column)
}

// Close drains the connection pool.
func (c *Connector) Close() {
	c.pool.Close()
}

// --- pgx type wrappers ---

// pgxRows wraps pgx.Rows to satisfy connector.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Close()                 { r.rows.Close() }
func (r *pgxRows) Err() error             { return r.rows.Err() }
