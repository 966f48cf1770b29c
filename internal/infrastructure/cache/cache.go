// Package cache provides a small TTL cache for catalog read responses.
// Lookups are best-effort: a cache outage degrades to hitting the database,
// it never fails the request.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}
