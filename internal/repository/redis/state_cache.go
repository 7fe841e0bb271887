package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gachaVault/domain"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 5 * time.Minute

// StateCache keeps the replayed banner snapshots of a user so repeated state
// queries between imports skip the full replay. Any write to the user's log
// must invalidate the entry.
type StateCache struct {
	client *redis.Client
}

func NewStateCache(client *redis.Client) *StateCache {
	return &StateCache{
		client: client,
	}
}

func stateKey(userID uint) string {
	return fmt.Sprintf("gacha:state:%d", userID)
}

func (r *StateCache) GetStates(ctx context.Context, userID uint) (map[domain.BannerCategory]domain.BannerSnapshot, error) {
	val, err := r.client.Get(ctx, stateKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get states from Redis: %w", err)
	}

	var states map[domain.BannerCategory]domain.BannerSnapshot
	if err := json.Unmarshal([]byte(val), &states); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached states: %w", err)
	}

	return states, nil
}

func (r *StateCache) SetStates(ctx context.Context, userID uint, states map[domain.BannerCategory]domain.BannerSnapshot) error {
	jsonData, err := json.Marshal(states)
	if err != nil {
		return fmt.Errorf("failed to marshal states: %w", err)
	}

	if err := r.client.Set(ctx, stateKey(userID), jsonData, stateTTL).Err(); err != nil {
		return fmt.Errorf("failed to store states in Redis: %w", err)
	}

	return nil
}

func (r *StateCache) Invalidate(ctx context.Context, userID uint) error {
	if err := r.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached states: %w", err)
	}

	return nil
}
