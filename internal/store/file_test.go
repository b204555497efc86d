package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_PutGet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	b := NewFileBackend(dir)

	require.NoError(t, b.Put(ctx, "ns", []byte(`{"a":1}`)))
	got, err := b.Get(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, b.Put(ctx, "ns", []byte(`{"a":2}`)))
	got, err = b.Get(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	assert.Equal(t, filepath.Join(dir, "ns.json"), b.Path("ns"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "ns.json", entries[0].Name())
}

func TestFileBackend_NotFound(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	_, err := b.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
