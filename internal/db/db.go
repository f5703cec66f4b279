// Package db declares the key-value store libsearch keeps response caches and budget counters in.
package db

import (
	"context"
	"time"
)

// Store is the key-value facade shared by the response cache and budget counters.
type Store interface {
	Pinger
	KVStore
	CounterStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore reads and writes expiring blobs.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CounterStore maintains integer counters that expire after a fixed window.
type CounterStore interface {
	// IncrByWithTTL adds val to key and returns the new value. The TTL is set only
	// when the key has none yet, so repeated increments keep the original expiry.
	IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}
