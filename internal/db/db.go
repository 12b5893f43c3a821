package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	// Get returns ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMulti returns one entry per key, nil where the key is absent.
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Scan returns all keys matching a glob pattern.
	Scan(ctx context.Context, pattern string) ([]string, error)
}
