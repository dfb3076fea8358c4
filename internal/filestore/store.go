// Package filestore defines the artifact sink the dictionary writes to.
//
// Artifacts are addressed by a logical key such as
// "schema_store/sales.orders.json"; providers map the key onto their own
// namespace (a directory tree, an object key in a bucket, …). Callers depend
// only on this package — never on a specific provider package.
//
// Usage:
//
//	sink, err := local.New("./dictionary")
//	if err != nil { ... }
//	defer sink.Close()
//
//	err = sink.Put(ctx, "schema_store/sales.orders.json", payload, "application/json")
package filestore

import "context"

// Store is the single interface all artifact sinks must implement.
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Ping verifies the sink is reachable and writable.
	Ping(ctx context.Context) error

	// Put writes data under the given logical key, overwriting any previous
	// artifact with the same key. Keys use "/" separators regardless of the
	// provider.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Close releases any held resources.
	Close() error
}

// Provider identifies the artifact sink backend.
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderMinIO Provider = "minio"
)

// Config holds all settings needed to open an artifact sink.
type Config struct {
	// Provider is the sink backend (e.g. ProviderLocal).
	Provider Provider

	// Directory is the root directory for the local provider.
	Directory string

	// Endpoint is the host:port of the object storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// Bucket is the target bucket for object storage providers.
	Bucket string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends. Leave empty for MinIO.
	Region string
}
