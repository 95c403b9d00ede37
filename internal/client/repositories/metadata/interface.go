// Package metadata is the local key/value table backing the credential store.
//
// Get returns (nil, nil) for an absent key; Delete and DeleteKeys are
// idempotent.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteKeys(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}
