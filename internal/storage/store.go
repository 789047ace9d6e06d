package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is the host key-value store: string keys, string values.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
