package caching

import (
	"context"
	"time"
)

// CachingService is a string key/value cache. A miss is reported as an
// empty value with a nil error.
type CachingService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var (
	_ CachingService = (*RedisCachingService)(nil)
	_ CachingService = (*NullCachingService)(nil)
)
