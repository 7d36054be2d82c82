package caching

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCachingService struct {
	client *redis.Client
	prefix string
}

func NewRedisCachingService(c *redis.Client) *RedisCachingService {
	return &RedisCachingService{
		client: c,
		prefix: "taskflow:",
	}
}

func (svc *RedisCachingService) Get(ctx context.Context, key string) (string, error) {
	val, err := svc.client.Get(ctx, svc.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (svc *RedisCachingService) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return svc.client.Set(ctx, svc.prefix+key, value, ttl).Err()
}

func (svc *RedisCachingService) Delete(ctx context.Context, key string) error {
	return svc.client.Del(ctx, svc.prefix+key).Err()
}
