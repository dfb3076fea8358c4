// Package local provides a directory-backed implementation of
// filestore.Store. Logical keys map onto file paths under the root, with
// intermediate directories created on demand.
package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/koralov/sqldict/internal/errs"
)

// Driver writes artifacts into a directory tree.
// It is safe for concurrent use by multiple goroutines as long as keys are
// distinct, which the dictionary builder guarantees (one key per artifact).
type Driver struct {
	root string
}

// New returns a Driver rooted at dir, creating it if needed.
func New(dir string) (*Driver, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create output directory", err)
	}
	return &Driver{root: dir}, nil
}

// --- filestore.Store implementation ---

// Ping verifies the root directory exists and is a directory.
func (d *Driver) Ping(_ context.Context) error {
	info, err := os.Stat(d.root)
	if err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, "output directory unavailable", err)
	}
	if !info.IsDir() {
		return errs.Newf(errs.ErrKindInvalidInput, "output path %q is not a directory", d.root)
	}
	return nil
}

// Put writes data to the file named by key, creating parent directories.
func (d *Driver) Put(_ context.Context, key string, data []byte, _ string) error {
	path := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ErrKindQueryFailed, "failed to create artifact directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrKindQueryFailed, "failed to write artifact "+key, err)
	}
	return nil
}

// Close is a no-op for the local driver.
func (d *Driver) Close() error {
	return nil
}
