package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps ranked leaderboard pages in Redis for a short TTL
// so repeated requests don't re-aggregate every user's rows. A nil cache is
// valid and behaves as a permanent miss.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(addr, password string, ttl time.Duration) (*LeaderboardCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &LeaderboardCache{client: rdb, ttl: ttl}, nil
}

func leaderboardKey(lbType, period string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%s:%d", lbType, period, limit)
}

// Get loads a cached page into dest. Returns false on a miss.
func (c *LeaderboardCache) Get(ctx context.Context, lbType, period string, limit int, dest interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	raw, err := c.client.Get(ctx, leaderboardKey(lbType, period, limit)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a page under the (type, period, limit) key for the cache TTL.
func (c *LeaderboardCache) Set(ctx context.Context, lbType, period string, limit int, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardKey(lbType, period, limit), raw, c.ttl).Err()
}

func (c *LeaderboardCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
