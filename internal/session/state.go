package session

import (
	"context"
	"errors"
	"fmt"

	"guildapply/internal/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StateStore tracks single-use OAuth state values.
type StateStore struct {
	rdb *redis.Client
}

// NewStateStore returns a StateStore. Without Redis, state is issued but not verified.
func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb}
}

// New records and returns a fresh state value.
func (s *StateStore) New(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if s.rdb == nil {
		return state, nil
	}
	if err := s.rdb.Set(ctx, cache.OAuthStateKey(state), "1", cache.OAuthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return state, nil
}

// Consume reports whether state was issued and not yet used, and burns it.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if s.rdb == nil {
		return true, nil
	}
	if state == "" {
		return false, nil
	}
	_, err := s.rdb.GetDel(ctx, cache.OAuthStateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return true, nil
}
