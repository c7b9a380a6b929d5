package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruItem struct {
	data      []byte
	expiresAt time.Time
}

// LRU is the in-process backend used when no Redis is configured.
type LRU struct {
	lruCache *lru.Cache[string, lruItem]
	now      func() time.Time
}

func NewLRU(size int) (*LRU, error) {
	l, err := lru.New[string, lruItem](size)
	if err != nil {
		return nil, err
	}
	return &LRU{lruCache: l, now: time.Now}, nil
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if c.now().After(item.expiresAt) {
		c.lruCache.Remove(key)
		return nil, false, nil
	}
	return item.data, true, nil
}

func (c *LRU) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.lruCache.Add(key, lruItem{data: value, expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *LRU) Delete(_ context.Context, key string) error {
	c.lruCache.Remove(key)
	return nil
}
