// Package metadata is a small key/value store in the local SQLite database.
// The session store keeps the bearer token and the serialized user here.
package metadata

import (
	"context"
)

// Repository stores opaque values by key.
//
// Get returns common.ErrorNotFound when the key is absent. Delete of an
// absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
