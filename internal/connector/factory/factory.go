// Package factory opens a connector for a configured engine. The engine set
// is closed: the switch below is the only place a driver package is named.
package factory

import (
	"context"

	"github.com/koralov/sqldict/internal/connector"
	"github.com/koralov/sqldict/internal/connector/mysql"
	"github.com/koralov/sqldict/internal/connector/postgres"
	"github.com/koralov/sqldict/internal/connector/sqlite"
	"github.com/koralov/sqldict/internal/errs"
)

// Open connects to the engine named in cfg and returns its connector.
// An unknown engine is a configuration error; no connection is attempted.
func Open(ctx context.Context, cfg *connector.Config) (connector.Connector, error) {
	switch cfg.Engine {
	case connector.EnginePostgres:
		return postgres.New(ctx, cfg)
	case connector.EngineMySQL:
		return mysql.New(ctx, cfg)
	case connector.EngineSQLite:
		return sqlite.New(ctx, cfg)
	default:
		return nil, errs.Newf(errs.ErrKindConfig, "unknown database engine %q", cfg.Engine)
	}
}
