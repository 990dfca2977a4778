package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/redis"
)

// RedisPublisher delivers domain events over Redis pub/sub. Each event type
// has its own channel; consumers (mailers, websocket fan-out, analytics)
// subscribe to the channels they care about. Publishing is best-effort by
// contract: callers log failures and move on.
type RedisPublisher struct{}

// NewRedisPublisher creates the pub/sub event publisher
func NewRedisPublisher() *RedisPublisher {
	return &RedisPublisher{}
}

// Publish serializes the event and publishes it on the event's channel
func (p *RedisPublisher) Publish(ctx context.Context, evt domain.Event) error {
	client := redis.Client()
	if client == nil {
		return errors.New("redis not available for event publishing")
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event for %s: %w", evt.Channel(), err)
	}

	if err := client.Publish(ctx, evt.Channel(), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event on %s: %w", evt.Channel(), err)
	}
	return nil
}
