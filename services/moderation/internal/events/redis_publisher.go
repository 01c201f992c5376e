package events

import (
	"context"
	"encoding/json"
	"fmt"

	"simple-forum/services/moderation/internal/entity"

	"github.com/redis/go-redis/v9"
)

// ModerationChannel carries one JSON ModerationEvent per message.
const ModerationChannel = "moderation_events"

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: ModerationChannel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event entity.ModerationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal moderation event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return nil
}
