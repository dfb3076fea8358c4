// Command sqldict builds a data dictionary from a live relational database:
// it introspects tables, views, columns, representative values and foreign-key
// relationships, and writes the dictionary artifacts to a local directory or
// an object store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koralov/sqldict/internal/config"
	connfactory "github.com/koralov/sqldict/internal/connector/factory"
	"github.com/koralov/sqldict/internal/dictionary"
	"github.com/koralov/sqldict/internal/errs"
	sinkfactory "github.com/koralov/sqldict/internal/filestore/factory"
	"github.com/koralov/sqldict/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errs.IsConfig(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sqldict",
		Short:         "Build a data dictionary from a relational database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Extract the schema and write dictionary artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the run configuration")
	return cmd
}

func runBuild(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})

	ctx := cmd.Context()

	conn, err := connfactory.Open(ctx, cfg.ConnectorConfig())
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Infof("connected to %s", cfg.Engine)

	sink, err := sinkfactory.Open(ctx, cfg.FilestoreConfig())
	if err != nil {
		return err
	}
	defer sink.Close()

	builder, err := dictionary.NewBuilder(conn, sink, log, dictionary.Options{
		IncludeEntities: cfg.Entities,
		ExcludeEntities: cfg.ExcludedEntities,
		ExcludeSchemas:  cfg.ExcludedSchemas,
		SingleArtifact:  cfg.SingleArtifact,
		Warehouse:       cfg.Warehouse,
		Catalog:         cfg.Catalog,
		Database:        cfg.Database,
	})
	if err != nil {
		return err
	}

	entities, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	log.Infof("dictionary complete: %d entities", len(entities))
	return nil
}
