// Package cache holds short-lived copies of read-mostly responses. Values are
// opaque bytes so the same callers work against the in-process LRU and Redis.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns ok=false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
