package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Yulian302/taskflow-gateway/auth/types"
	"github.com/Yulian302/taskflow-gateway/services/caching"
)

// CachedUserStore reads users through a cache. User records never change
// after creation, so entries are only written, never invalidated.
type CachedUserStore struct {
	UserStore

	cache caching.CachingService
	ttl   time.Duration
}

func NewCachedUserStore(inner UserStore, cache caching.CachingService, ttl time.Duration) *CachedUserStore {
	return &CachedUserStore{
		UserStore: inner,
		cache:     cache,
		ttl:       ttl,
	}
}

func userCacheKey(email string) string {
	return "user:" + email
}

func (s *CachedUserStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	key := userCacheKey(email)

	if raw, err := s.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "user cache read failed", "error", err)
	} else if raw != "" {
		var user types.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			return &user, nil
		}
		slog.WarnContext(ctx, "dropping malformed user cache entry", "key", key)
		_ = s.cache.Delete(ctx, key)
	}

	user, err := s.UserStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	s.put(ctx, user)
	return user, nil
}

func (s *CachedUserStore) Create(ctx context.Context, user types.User) error {
	if err := s.UserStore.Create(ctx, user); err != nil {
		return err
	}
	s.put(ctx, &user)
	return nil
}

func (s *CachedUserStore) put(ctx context.Context, user *types.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, userCacheKey(user.Email), string(raw), s.ttl); err != nil {
		slog.WarnContext(ctx, "user cache write failed", "error", err)
	}
}
