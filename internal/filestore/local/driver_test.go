package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutWritesFile(t *testing.T) {
	dir := t.TempDir()
	d, err := New(dir)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Ping(context.Background()))

	payload := []byte(`{"Entity": "Orders"}`)
	err = d.Put(context.Background(), "schema_store/shop.dbo.Orders.json", payload, "application/json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "schema_store", "shop.dbo.Orders.json"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestPutOverwrites(t *testing.T) {
	dir := t.TempDir()
	d, err := New(dir)
	require.NoError(t, err)

	key := "schema_store/entities.json"
	require.NoError(t, d.Put(context.Background(), key, []byte("first"), "application/json"))
	require.NoError(t, d.Put(context.Background(), key, []byte("second"), "application/json"))

	data, err := os.ReadFile(filepath.Join(dir, "schema_store", "entities.json"))
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPingMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	d, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, d.Ping(context.Background()))
}
