package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const reminderSentKeyPrefix = "reminders:sent:"

// ReminderCache deduplicates ride reminders across sweep ticks (and across
// server instances) so each ride is reminded once per departure window.
type ReminderCache interface {
	MarkReminded(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
}

type reminderCache struct {
	redis *redis.Client
}

func NewReminderCache(redisClient *redis.Client) ReminderCache {
	return &reminderCache{redis: redisClient}
}

// MarkReminded returns true exactly once per ride within the TTL window.
func (c *reminderCache) MarkReminded(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, reminderSentKeyPrefix+rideID, "1", ttl).Result()
}
