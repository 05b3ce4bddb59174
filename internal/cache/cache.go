// Package cache is the short-lived read cache for branch-scoped listings.
// It replaces ad-hoc module-level caching with an explicit object that is
// injected into services, so cache behavior is unit-testable and write paths
// can invalidate deterministically.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TTL is the fixed freshness window for every cached listing.
const TTL = 2 * time.Minute

// Store is the injected cache contract. Keys are entity name + branch id.
type Store interface {
	// Get unmarshals the cached value into dest; false on miss.
	Get(ctx context.Context, entity string, branchID int, dest any) bool
	// Set stores the value with the fixed TTL. Best effort.
	Set(ctx context.Context, entity string, branchID int, v any)
	// Invalidate drops the entry. Called before re-fetching on every write.
	Invalidate(ctx context.Context, entity string, branchID int)
}

type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func key(entity string, branchID int) string {
	return fmt.Sprintf("cache:%s:branch:%d", entity, branchID)
}

func (s *RedisStore) Get(ctx context.Context, entity string, branchID int, dest any) bool {
	raw, err := s.rdb.Get(ctx, key(entity, branchID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *RedisStore) Set(ctx context.Context, entity string, branchID int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key(entity, branchID), raw, TTL).Err(); err != nil {
		log.Debug().Err(err).Str("entity", entity).Int("branch", branchID).Msg("cache set failed")
	}
}

func (s *RedisStore) Invalidate(ctx context.Context, entity string, branchID int) {
	if err := s.rdb.Del(ctx, key(entity, branchID)).Err(); err != nil {
		log.Debug().Err(err).Str("entity", entity).Int("branch", branchID).Msg("cache invalidate failed")
	}
}
