// Package config loads and validates the YAML run configuration.
//
// Secrets (the database DSN and object-storage credentials) can be supplied
// through environment variables instead of the file:
//
//	SQLDICT_DSN         overrides dsn
//	SQLDICT_ACCESS_KEY  overrides output.access_key
//	SQLDICT_SECRET_KEY  overrides output.secret_key
package config

import (
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/koralov/sqldict/internal/connector"
	"github.com/koralov/sqldict/internal/errs"
	"github.com/koralov/sqldict/internal/filestore"
)

// Output configures the artifact sink.
type Output struct {
	// Driver selects the sink backend: "local" or "minio".
	Driver string `yaml:"driver"`

	// Directory is the output root for the local driver.
	Directory string `yaml:"directory"`

	// MinIO / S3 settings.
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
}

// Logging configures the run logger.
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Config is one extraction run, as declared in the YAML file.
type Config struct {
	// Engine is the database engine: postgres, mysql or sqlite.
	Engine string `yaml:"engine"`

	// DSN is the connection string for the engine.
	DSN string `yaml:"dsn"`

	// Hierarchy identifiers prepended to every FQN. Engines that exclude a
	// level ignore the corresponding identifier.
	Warehouse *string `yaml:"warehouse"`
	Catalog   *string `yaml:"catalog"`
	Database  *string `yaml:"database"`

	// Entities keeps only the named entities (exact match). Mutually
	// exclusive with ExcludedEntities.
	Entities []string `yaml:"entities"`

	// ExcludedEntities and ExcludedSchemas drop entities by name or schema
	// (case-insensitive).
	ExcludedEntities []string `yaml:"excluded_entities"`
	ExcludedSchemas  []string `yaml:"excluded_schemas"`

	// SingleArtifact writes one combined entities.json instead of one file
	// per entity.
	SingleArtifact bool `yaml:"single_artifact"`

	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
}

// Load reads the YAML file at path, applies environment overrides, fills
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfig, "failed to read config file", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindConfig, "failed to parse config file", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SQLDICT_DSN"); v != "" {
		c.DSN = v
	}
	if v := os.Getenv("SQLDICT_ACCESS_KEY"); v != "" {
		c.Output.AccessKey = v
	}
	if v := os.Getenv("SQLDICT_SECRET_KEY"); v != "" {
		c.Output.SecretKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Output.Driver == "" {
		c.Output.Driver = string(filestore.ProviderLocal)
	}
	if c.Output.Driver == string(filestore.ProviderLocal) && c.Output.Directory == "" {
		c.Output.Directory = "dictionary"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate rejects invalid configurations before any connection is opened.
func (c *Config) Validate() error {
	switch connector.Engine(c.Engine) {
	case connector.EnginePostgres, connector.EngineMySQL, connector.EngineSQLite:
	case "":
		return errs.New(errs.ErrKindConfig, "engine is required")
	default:
		return errs.Newf(errs.ErrKindConfig, "unknown database engine %q", c.Engine)
	}

	if c.DSN == "" {
		return errs.New(errs.ErrKindConfig, "dsn is required (or set SQLDICT_DSN)")
	}

	if len(c.Entities) > 0 && len(c.ExcludedEntities) > 0 {
		return errs.New(errs.ErrKindConfig,
			"entities and excluded_entities are mutually exclusive; configure only one")
	}

	switch filestore.Provider(c.Output.Driver) {
	case filestore.ProviderLocal:
	case filestore.ProviderMinIO:
		if c.Output.Endpoint == "" {
			return errs.New(errs.ErrKindConfig, "output.endpoint is required for the minio driver")
		}
		if c.Output.Bucket == "" {
			return errs.New(errs.ErrKindConfig, "output.bucket is required for the minio driver")
		}
	default:
		return errs.Newf(errs.ErrKindConfig, "unknown output driver %q", c.Output.Driver)
	}

	return nil
}

// ConnectorConfig maps the run configuration onto connection-pool settings.
func (c *Config) ConnectorConfig() *connector.Config {
	return connector.DefaultConfig(connector.Engine(c.Engine), c.DSN)
}

// FilestoreConfig maps the output section onto sink settings.
func (c *Config) FilestoreConfig() *filestore.Config {
	return &filestore.Config{
		Provider:  filestore.Provider(c.Output.Driver),
		Directory: c.Output.Directory,
		Endpoint:  c.Output.Endpoint,
		Bucket:    c.Output.Bucket,
		AccessKey: c.Output.AccessKey,
		SecretKey: c.Output.SecretKey,
		UseSSL:    c.Output.UseSSL,
		Region:    c.Output.Region,
	}
}
