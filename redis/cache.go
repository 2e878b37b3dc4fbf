package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AvailabilityStore is the durable home of a provider's weekly availability.
type AvailabilityStore interface {
	GetAvailability(ctx context.Context, providerID uint) (availability.Weekly, error)
	SaveAvailability(ctx context.Context, providerID uint, w availability.Weekly) error
}

// AvailabilityCache is a read-through cache in front of an AvailabilityStore.
// Redis failures are logged and fall through to the store.
type AvailabilityCache struct {
	client redis.Cmdable
	store  AvailabilityStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewAvailabilityCache(client redis.Cmdable, store AvailabilityStore, ttl time.Duration, logger *zap.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, store: store, ttl: ttl, logger: logger}
}

func (c *AvailabilityCache) GetAvailability(ctx context.Context, providerID uint) (availability.Weekly, error) {
	key := weeklyKey(providerID)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var w availability.Weekly
		if err := json.Unmarshal([]byte(raw), &w); err == nil {
			return w, nil
		}
		c.logger.Warn("discarding unreadable cached availability", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
	}

	w, err := c.store.GetAvailability(ctx, providerID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(w)
	if err != nil {
		return w, nil
	}
	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
	}
	return w, nil
}

// SaveAvailability writes through to the store and drops the cached copy.
func (c *AvailabilityCache) SaveAvailability(ctx context.Context, providerID uint, w availability.Weekly) error {
	if err := c.store.SaveAvailability(ctx, providerID, w); err != nil {
		return err
	}
	if err := c.client.Del(ctx, weeklyKey(providerID)).Err(); err != nil {
		c.logger.Warn("availability cache invalidation failed", zap.Uint("provider_id", providerID), zap.Error(err))
	}
	return nil
}
