// Package cache provides a short-TTL Redis cache for the admin timeline view.
// Cached data is a pure derivation of persisted rows, so a miss or a Redis
// outage only costs a re-aggregation.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"irdesk/internal/request/models"
)

// TimelineCache caches aggregated timelines keyed by request ID.
type TimelineCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewTimeline(client *redis.Client, ttl time.Duration, logger *slog.Logger) *TimelineCache {
	return &TimelineCache{client: client, ttl: ttl, logger: logger}
}

func key(requestID uuid.UUID) string {
	return "timeline:admin:" + requestID.String()
}

func (c *TimelineCache) Get(ctx context.Context, requestID uuid.UUID) ([]models.TimelineItem, bool) {
	raw, err := c.client.Get(ctx, key(requestID)).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.WarnContext(ctx, "timeline cache read failed", "error", err)
		}
		return nil, false
	}

	var items []models.TimelineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// Stale or incompatible payload; drop it and re-aggregate.
		c.client.Del(ctx, key(requestID))
		return nil, false
	}
	return items, true
}

func (c *TimelineCache) Set(ctx context.Context, requestID uuid.UUID, items []models.TimelineItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(requestID), raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "timeline cache write failed", "error", err)
	}
}

func (c *TimelineCache) Invalidate(ctx context.Context, requestID uuid.UUID) {
	if err := c.client.Del(ctx, key(requestID)).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "timeline cache invalidation failed", "error", err)
	}
}
