package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meinhoongagan/petcare/availability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// Publisher fans availability notifications out over redis pub/sub.
type Publisher struct {
	client redis.Cmdable
	logger *zap.Logger
}

func NewPublisher(client redis.Cmdable, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// For returns a Notifier bound to one provider. Notify logs the message and
// publishes it in the background so the editor never waits on redis.
func (p *Publisher) For(providerID uint) availability.Notifier {
	return availability.NotifierFunc(func(n availability.Notification) {
		p.logger.Info(n.Message,
			zap.Uint("provider_id", providerID),
			zap.String("day", string(n.Day)),
			zap.String("action", string(n.Action)),
		)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			if err := p.Publish(ctx, providerID, n); err != nil {
				p.logger.Warn("failed to publish availability notification",
					zap.Uint("provider_id", providerID), zap.Error(err))
			}
		}()
	})
}

func (p *Publisher) Publish(ctx context.Context, providerID uint, n availability.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(providerID), string(data)).Err()
}
