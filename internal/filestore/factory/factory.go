// Package factory opens an artifact sink for a configured provider. The
// provider set is closed: the switch below is the only place a sink package
// is named.
package factory

import (
	"context"

	"github.com/koralov/sqldict/internal/errs"
	"github.com/koralov/sqldict/internal/filestore"
	"github.com/koralov/sqldict/internal/filestore/local"
	"github.com/koralov/sqldict/internal/filestore/minio"
)

// Open prepares the sink named in cfg and returns it.
// An unknown provider is a configuration error; nothing is opened.
func Open(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	switch cfg.Provider {
	case filestore.ProviderLocal:
		return local.New(cfg.Directory)
	case filestore.ProviderMinIO:
		return minio.New(ctx, cfg)
	default:
		return nil, errs.Newf(errs.ErrKindConfig, "unknown artifact sink provider %q", cfg.Provider)
	}
}
