package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// JwtBlacklistStore records revoked access tokens until they expire
type JwtBlacklistStore interface {
	// IsBlacklisted checks if the given JWT ID (jti) is blacklisted.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// AddToBlacklist adds the given JWT ID (jti) to the blacklist until exp.
	AddToBlacklist(ctx context.Context, jti string, exp time.Time) error
}

// InMemoryBlacklistStore keeps revoked tokens in process memory
type InMemoryBlacklistStore struct {
	blacklist map[string]time.Time
	mu        sync.RWMutex
	now       func() time.Time
}

// NewInMemoryBlacklistStore creates an empty InMemoryBlacklistStore.
// Expired entries are dropped by CleanUpExpired, see ScheduleCleanUp.
func NewInMemoryBlacklistStore() *InMemoryBlacklistStore {
	return &InMemoryBlacklistStore{
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

// CleanUpExpired drops expired entries and returns how many were removed
func (s *InMemoryBlacklistStore) CleanUpExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for jti, exp := range s.blacklist {
		if exp.Before(now) {
			delete(s.blacklist, jti)
			removed++
		}
	}
	return removed
}

// IsBlacklisted implements JwtBlacklistStore
func (s *InMemoryBlacklistStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.blacklist[jti]
	return exists, nil
}

// AddToBlacklist implements JwtBlacklistStore
func (s *InMemoryBlacklistStore) AddToBlacklist(_ context.Context, jti string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[jti] = exp
	return nil
}

// ScheduleCleanUp registers CleanUpExpired on c with the given cron spec.
// onSwept, if non-nil, receives the number of entries removed by each run.
func ScheduleCleanUp(c *cron.Cron, store *InMemoryBlacklistStore, spec string, onSwept func(int)) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		n := store.CleanUpExpired()
		if onSwept != nil {
			onSwept(n)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("cron.AddFunc: %w", err)
	}
	return id, nil
}

// RedisBlacklistStore keeps revoked tokens in Redis with a TTL matching the token expiry
type RedisBlacklistStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlacklistStore creates a RedisBlacklistStore using client
func NewRedisBlacklistStore(client *redis.Client) *RedisBlacklistStore {
	return &RedisBlacklistStore{client: client, prefix: "jwt:blacklist:"}
}

// IsBlacklisted implements JwtBlacklistStore
func (s *RedisBlacklistStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, s.prefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}

// AddToBlacklist implements JwtBlacklistStore. Already expired tokens are not stored.
func (s *RedisBlacklistStore) AddToBlacklist(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+jti, "1", ttl).Err()
}
