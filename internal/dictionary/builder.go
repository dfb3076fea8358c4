package dictionary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/koralov/sqldict/internal/connector"
	"github.com/koralov/sqldict/internal/errs"
	"github.com/koralov/sqldict/internal/filestore"
	"github.com/koralov/sqldict/internal/logger"
)

const (
	// dbConcurrency bounds simultaneous database round-trips.
	dbConcurrency = 20

	// enrichConcurrency bounds simultaneous enrichment calls. Database
	// connections and model-call quotas are scarce independently, so the
	// two budgets are separate.
	enrichConcurrency = 10

	// maxQueryAttempts is the total number of tries for one query through
	// the shared execution entry point.
	maxQueryAttempts = 3

	retryInitialInterval = 1 * time.Second
	retryMaxInterval     = 10 * time.Second

	schemaStorePrefix = "schema_store"
	valueStorePrefix  = "column_value_store"
)

// Enricher augments an assembled entity, typically with a model-generated
// description. Implementations live outside this package; the builder only
// bounds their concurrency and treats their failures as run-fatal.
type Enricher interface {
	EnrichEntity(ctx context.Context, entity *EntityItem) error
}

// Options configure one extraction run.
type Options struct {
	// IncludeEntities keeps only the named entities (exact match).
	// Mutually exclusive with ExcludeEntities.
	IncludeEntities []string

	// ExcludeEntities drops entities by name (case-insensitive).
	ExcludeEntities []string

	// ExcludeSchemas drops whole schemas (case-insensitive).
	ExcludeSchemas []string

	// SingleArtifact writes one combined entities.json instead of one
	// artifact per entity.
	SingleArtifact bool

	// Hierarchy identifiers stamped onto every retained entity and
	// relationship. Nil identifiers are omitted from FQNs.
	Warehouse *string
	Catalog   *string
	Database  *string

	// Enricher is optional; nil disables enrichment.
	Enricher Enricher
}

// Builder runs one dictionary extraction: discovery, relationship
// registration, graph construction, concurrent per-entity assembly, and
// artifact emission. A Builder is single-use; construct a fresh one per run.
type Builder struct {
	conn      connector.Connector
	sink      filestore.Store
	log       *logger.Logger
	opts      Options
	projector *Projector

	registry *Registry
	graph    *Graph

	dbSem     *semaphore.Weighted
	enrichSem *semaphore.Weighted

	// retryInitial is the first backoff interval; tests shrink it.
	retryInitial time.Duration
}

// NewBuilder validates opts and prepares a Builder. Conflicting include and
// exclude lists are a configuration error, rejected before any I/O.
func NewBuilder(conn connector.Connector, sink filestore.Store, log *logger.Logger, opts Options) (*Builder, error) {
	if len(opts.IncludeEntities) > 0 && len(opts.ExcludeEntities) > 0 {
		return nil, errs.New(errs.ErrKindConfig,
			"entity include and exclude lists are mutually exclusive; configure only one")
	}
	if log == nil {
		log = logger.New(nil)
	}
	return &Builder{
		conn:         conn,
		sink:         sink,
		log:          log,
		opts:         opts,
		projector:    NewProjector(conn.ExcludedFields()),
		registry:     NewRegistry(),
		dbSem:        semaphore.NewWeighted(dbConcurrency),
		enrichSem:    semaphore.NewWeighted(enrichConcurrency),
		retryInitial: retryInitialInterval,
	}, nil
}

// Build produces the dictionary: it returns the assembled entities and has
// written every artifact to the sink. Any entity-assembly error aborts the
// whole run; no partial dictionary is emitted in single-artifact mode.
func (b *Builder) Build(ctx context.Context) ([]*EntityItem, error) {
	entities, err := b.extractEntities(ctx)
	if err != nil {
		return nil, err
	}
	b.log.Infof("retained %d entities", len(entities))

	if err := b.extractRelationships(ctx); err != nil {
		return nil, err
	}

	// The registry is complete here; everything after this point reads it
	// and the graph without mutation.
	b.graph = BuildGraph(b.registry)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, entity := range entities {
		eg.Go(func() error {
			return b.buildEntity(egCtx, entity)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if b.opts.SingleArtifact {
		payload, err := b.projector.CombinedJSON(entities)
		if err != nil {
			return nil, err
		}
		key := schemaStorePrefix + "/entities.json"
		if err := b.sink.Put(ctx, key, payload, "application/json"); err != nil {
			return nil, err
		}
		b.log.Info("saved data dictionary to entities.json")
	}

	return entities, nil
}

// --- discovery ---

// extractEntities queries tables and views, applies the configured filters,
// and stamps the run's hierarchy identifiers onto the survivors.
func (b *Builder) extractEntities(ctx context.Context) ([]*EntityItem, error) {
	tables, err := b.queryEntityRows(ctx, b.conn.TableEntitiesQuery())
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed,
			fmt.Sprintf("%s: failed to extract table entities", b.conn.Engine()), err)
	}
	views, err := b.queryEntityRows(ctx, b.conn.ViewEntitiesQuery())
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed,
			fmt.Sprintf("%s: failed to extract view entities", b.conn.Engine()), err)
	}

	entities := b.filterEntities(append(tables, views...))

	for _, entity := range entities {
		entity.Warehouse = b.opts.Warehouse
		entity.Catalog = b.opts.Catalog
		entity.Database = b.opts.Database
	}
	return entities, nil
}

func (b *Builder) filterEntities(all []*EntityItem) []*EntityItem {
	if len(b.opts.IncludeEntities) > 0 {
		include := make(map[string]bool, len(b.opts.IncludeEntities))
		for _, name := range b.opts.IncludeEntities {
			include[name] = true
		}
		kept := make([]*EntityItem, 0, len(all))
		for _, entity := range all {
			if include[entity.Entity] {
				kept = append(kept, entity)
			}
		}
		return kept
	}

	excludedEntities := lowerSet(b.opts.ExcludeEntities)
	excludedSchemas := lowerSet(b.opts.ExcludeSchemas)
	if len(excludedEntities) == 0 && len(excludedSchemas) == 0 {
		return all
	}
	kept := make([]*EntityItem, 0, len(all))
	for _, entity := range all {
		if excludedEntities[strings.ToLower(entity.Entity)] {
			continue
		}
		if excludedSchemas[strings.ToLower(entity.EntitySchema)] {
			continue
		}
		kept = append(kept, entity)
	}
	return kept
}

// extractRelationships queries the engine's foreign-key rows, stamps both
// ends with the run's hierarchy, and folds each row into the registry.
func (b *Builder) extractRelationships(ctx context.Context) error {
	rels, err := b.queryRelationshipRows(ctx, b.conn.EntityRelationshipsQuery())
	if err != nil {
		return errs.Wrap(errs.ErrKindQueryFailed,
			fmt.Sprintf("%s: failed to extract entity relationships", b.conn.Engine()), err)
	}
	b.log.Infof("extracted %d relationships", len(rels))

	for _, rel := range rels {
		rel.Warehouse = b.opts.Warehouse
		rel.Catalog = b.opts.Catalog
		rel.Database = b.opts.Database
		rel.ForeignWarehouse = b.opts.Warehouse
		rel.ForeignCatalog = b.opts.Catalog
		rel.ForeignDatabase = b.opts.Database

		b.registry.Merge(rel)
	}
	return nil
}

// --- per-entity assembly ---

func (b *Builder) buildEntity(ctx context.Context, entity *EntityItem) error {
	log := b.log.With().Str("entity", entity.FQN()).Logger()
	log.Info("building entity entry")

	columns, err := b.extractColumns(ctx, entity)
	if err != nil {
		return err
	}
	entity.Columns = columns

	entity.EntityRelationships = b.registry.Relationships(entity.FQN())
	entity.CompleteEntityRelationshipsGraph = b.graph.JoinPaths(entity.FQN())

	if b.opts.Enricher != nil {
		if err := b.enrichSem.Acquire(ctx, 1); err != nil {
			return err
		}
		err := b.opts.Enricher.EnrichEntity(ctx, entity)
		b.enrichSem.Release(1)
		if err != nil {
			return errs.Wrap(errs.ErrKindQueryFailed,
				fmt.Sprintf("%s: enrichment failed for %s", b.conn.Engine(), entity.FQN()), err)
		}
	}

	if !b.opts.SingleArtifact {
		payload, err := b.projector.EntityJSON(entity)
		if err != nil {
			return err
		}
		key := schemaStorePrefix + "/" + entity.FQN() + ".json"
		if err := b.sink.Put(ctx, key, payload, "application/json"); err != nil {
			return err
		}
		log.Debug("saved entity schema artifact")
	}
	return nil
}

// extractColumns fetches the entity's columns and fans out distinct-value
// extraction across them.
func (b *Builder) extractColumns(ctx context.Context, entity *EntityItem) ([]*ColumnItem, error) {
	columns, err := b.queryColumnRows(ctx, b.conn.ColumnsQuery(entity.EntitySchema, entity.Entity))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed,
			fmt.Sprintf("%s: failed to extract columns for %s", b.conn.Engine(), entity.FQN()), err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, column := range columns {
		eg.Go(func() error {
			return b.extractColumnValues(egCtx, entity, column)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return columns, nil
}

// extractColumnValues fetches a column's distinct values, samples them, and
// persists string-family columns to the value store. A distinct-value query
// failure is column-local: it is logged and the column proceeds with empty
// sets. Value-store write failures remain fatal.
func (b *Builder) extractColumnValues(ctx context.Context, entity *EntityItem, column *ColumnItem) error {
	values, err := b.queryDistinctValues(ctx, b.conn.DistinctValuesQuery(entity.EntitySchema, entity.Entity, column.Name))
	if err != nil {
		b.log.ErrorWith("failed to extract distinct values", err, map[string]any{
			"engine": string(b.conn.Engine()),
			"entity": entity.FQN(),
			"column": column.Name,
		})
	} else {
		column.DistinctValues = values
	}

	column.sample()

	if !column.IsStringFamily() {
		return nil
	}

	payload, err := b.projector.ValueStoreJSONL(entity, column)
	if err != nil {
		return err
	}
	key := valueStorePrefix + "/" + entity.FQN() + "." + column.Name + ".jsonl"
	if err := b.sink.Put(ctx, key, payload, "application/x-ndjson"); err != nil {
		return err
	}
	b.log.Debugf("saved column values for %s.%s", entity.FQN(), column.Name)
	return nil
}

// --- shared query execution ---

// runQuery is the single entry point for every query of the run. It holds a
// database-pool slot for the duration of execution plus row consumption and
// retries failed attempts with exponential backoff.
func (b *Builder) runQuery(ctx context.Context, sql string, scan func(connector.Rows) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = b.retryInitial
	bo.Multiplier = 2
	bo.MaxInterval = retryMaxInterval
	bo.MaxElapsedTime = 0 // attempts are bounded by count, not wall time

	operation := func() error {
		if err := b.dbSem.Acquire(ctx, 1); err != nil {
			return backoff.Permanent(err)
		}
		defer b.dbSem.Release(1)

		rows, err := b.conn.Query(ctx, sql)
		if err != nil {
			return err
		}
		defer rows.Close()
		return scan(rows)
	}

	return backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, maxQueryAttempts-1), ctx))
}

func (b *Builder) queryEntityRows(ctx context.Context, sql string) ([]*EntityItem, error) {
	var out []*EntityItem
	err := b.runQuery(ctx, sql, func(rows connector.Rows) error {
		out = nil
		for rows.Next() {
			entity := &EntityItem{}
			if err := rows.Scan(&entity.Entity, &entity.EntitySchema, &entity.Definition); err != nil {
				return err
			}
			out = append(out, entity)
		}
		return rows.Err()
	})
	return out, err
}

func (b *Builder) queryColumnRows(ctx context.Context, sql string) ([]*ColumnItem, error) {
	var out []*ColumnItem
	err := b.runQuery(ctx, sql, func(rows connector.Rows) error {
		out = nil
		for rows.Next() {
			column := &ColumnItem{}
			if err := rows.Scan(&column.Name, &column.DataType, &column.Definition); err != nil {
				return err
			}
			out = append(out, column)
		}
		return rows.Err()
	})
	return out, err
}

func (b *Builder) queryRelationshipRows(ctx context.Context, sql string) ([]*EntityRelationship, error) {
	var out []*EntityRelationship
	err := b.runQuery(ctx, sql, func(rows connector.Rows) error {
		out = nil
		for rows.Next() {
			rel := &EntityRelationship{}
			var column, foreignColumn string
			if err := rows.Scan(
				&rel.EntitySchema, &rel.Entity,
				&rel.ForeignEntitySchema, &rel.ForeignEntity,
				&column, &foreignColumn,
			); err != nil {
				return err
			}
			rel.ForeignKeys = []ForeignKeyRelationship{{Column: column, ForeignColumn: foreignColumn}}
			out = append(out, rel)
		}
		return rows.Err()
	})
	return out, err
}

func (b *Builder) queryDistinctValues(ctx context.Context, sql string) ([]any, error) {
	var out []any
	err := b.runQuery(ctx, sql, func(rows connector.Rows) error {
		out = nil
		for rows.Next() {
			var value any
			if err := rows.Scan(&value); err != nil {
				return err
			}
			if value == nil {
				continue
			}
			out = append(out, normalizeValue(value))
		}
		return rows.Err()
	})
	return out, err
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
