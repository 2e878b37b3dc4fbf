package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis connects to the configured server and verifies it answers PING.
func InitRedis(cfg config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	return client, nil
}

func weeklyKey(providerID uint) string {
	return fmt.Sprintf("availability:weekly:%d", providerID)
}

func editKey(providerID uint, day availability.Weekday) string {
	return fmt.Sprintf("availability:edit:%d:%s", providerID, day)
}

// Channel is the pub/sub channel availability notifications for a provider go to.
func Channel(providerID uint) string {
	return fmt.Sprintf("availability:%d", providerID)
}
