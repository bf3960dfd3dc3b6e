package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const preferenceTTL = 15 * time.Minute

// PreferenceCache keeps AI-extracted preference keywords per user so repeat
// ranking requests skip one completion call. Strictly best-effort: every
// miss or failure just means the extractor recomputes.
type PreferenceCache struct {
	client *redis.Client
}

func NewPreferenceCache(client *redis.Client) *PreferenceCache {
	return &PreferenceCache{client: client}
}

func (c *PreferenceCache) Get(ctx context.Context, userID string) ([]string, error) {
	key := fmt.Sprintf("prefs:user:%s", userID)

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.New("preferences not cached")
		}
		return nil, fmt.Errorf("failed to get preferences from Redis: %w", err)
	}

	var prefs []string
	if err := json.Unmarshal([]byte(val), &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached preferences: %w", err)
	}

	return prefs, nil
}

func (c *PreferenceCache) Set(ctx context.Context, userID string, prefs []string) error {
	key := fmt.Sprintf("prefs:user:%s", userID)

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := c.client.Set(ctx, key, data, preferenceTTL).Err(); err != nil {
		return fmt.Errorf("failed to store preferences in Redis: %w", err)
	}

	return nil
}
