package store

import (
	"context"
	"errors"
)

// DefaultNamespace is the key the ledger blob is stored under.
const DefaultNamespace = "flora_ledger_v3"

// ErrNotFound is returned by a Backend when nothing is stored under a key.
var ErrNotFound = errors.New("store: not found")

// Backend is a key-value store for serialized ledger blobs.
type Backend interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Put(ctx context.Context, namespace string, blob []byte) error
}
