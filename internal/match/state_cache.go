package match

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/arena"
)

// StoredState is the cached view of a match: the theme that renders it plus
// the latest engine snapshot.
type StoredState struct {
	ThemeID string         `json:"theme_id"`
	State   arena.Snapshot `json:"state"`
}

// StateCache mirrors live match snapshots into Redis so reconnecting clients
// and sibling server instances can read current state without owning the
// session.
type StateCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStateCache creates a snapshot cache. A non-positive ttl falls back to
// two hours, generous for match completion plus review.
func NewStateCache(redis *redis.Client, ttl time.Duration, logger zerolog.Logger) *StateCache {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &StateCache{redis: redis, ttl: ttl, logger: logger}
}

func (c *StateCache) key(matchID uuid.UUID) string {
	return fmt.Sprintf("arena:match:%s", matchID.String())
}

// StoreSnapshot saves the latest state for a match.
func (c *StateCache) StoreSnapshot(ctx context.Context, matchID uuid.UUID, state StoredState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.redis.Set(ctx, c.key(matchID), data, c.ttl).Err()
}

// GetSnapshot retrieves the last stored state; nil when absent.
func (c *StateCache) GetSnapshot(ctx context.Context, matchID uuid.UUID) (*StoredState, error) {
	data, err := c.redis.Get(ctx, c.key(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	var state StoredState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &state, nil
}

// Drop removes a match's snapshot once archived.
func (c *StateCache) Drop(ctx context.Context, matchID uuid.UUID) error {
	return c.redis.Del(ctx, c.key(matchID)).Err()
}
