package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get unmarshals the cached value into value. A miss is (false, nil).
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	BookKeyPrefix = "book"
)
