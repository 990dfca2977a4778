package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const metricsKeyPrefix = "metrics:candidate:"

// metricsCache is a read-through cache for metrics snapshots. Entries are
// short-lived and invalidated on every application write, so a cached
// snapshot is at worst TTL-stale and usually exact.
type metricsCache struct {
	ttl time.Duration
}

// NewMetricsCache creates a snapshot cache with the given TTL
func NewMetricsCache(ttl time.Duration) domain.MetricsCache {
	return &metricsCache{ttl: ttl}
}

// Get returns the cached snapshot or (nil, nil) on a miss.
// A missing Redis connection is treated as a miss, never an error.
func (c *metricsCache) Get(ctx context.Context, candidateID uuid.UUID) (*domain.MetricsSnapshot, error) {
	client := redis.Client()
	if client == nil {
		return nil, nil
	}

	raw, err := client.Get(ctx, metricsKeyPrefix+candidateID.String()).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics cache: %w", err)
	}

	var snapshot domain.MetricsSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// Corrupt entry: treat as miss, it will be overwritten
		return nil, nil
	}
	return &snapshot, nil
}

// Set stores a snapshot with the configured TTL
func (c *metricsCache) Set(ctx context.Context, snapshot domain.MetricsSnapshot) error {
	client := redis.Client()
	if client == nil {
		return nil
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics snapshot: %w", err)
	}
	if err := client.Set(ctx, metricsKeyPrefix+snapshot.CandidateID.String(), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write metrics cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot for a candidate
func (c *metricsCache) Invalidate(ctx context.Context, candidateID uuid.UUID) error {
	client := redis.Client()
	if client == nil {
		return nil
	}
	if err := client.Del(ctx, metricsKeyPrefix+candidateID.String()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate metrics cache: %w", err)
	}
	return nil
}
