// Package cache holds the Redis-backed cache for the dashboard aggregates.
// Every committed write invalidates it, so readers see at worst a stale
// value inside the TTL window, never a torn one.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talalam23/stock-wise/internal/inventory/usecase/query"
	"github.com/talalam23/stock-wise/pkg/logger"
)

const statsKey = "stockwise:dashboard:stats"

// StatsCache caches dashboard stats in Redis. A nil *StatsCache or a nil
// client disables caching entirely.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats, or nil on miss or when caching is disabled
func (c *StatsCache) Get(ctx context.Context) *query.DashboardStats {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		return nil
	}

	var stats query.DashboardStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		logger.Warn(ctx).Err(err).Msg("Discarding undecodable cached stats")
		c.Invalidate(ctx)
		return nil
	}
	return &stats
}

// Set stores the stats for the configured TTL
func (c *StatsCache) Set(ctx context.Context, stats *query.DashboardStats) {
	if c == nil || c.client == nil || stats == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey, payload, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to cache dashboard stats")
	}
}

// Invalidate drops the cached stats
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate stats cache")
	}
}
