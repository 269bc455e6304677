package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/go-redis/redis/v8"
)

const (
	eventChannelPrefix = "pos:events:"
	EventChannelAll    = "pos:events:all"
)

type eventEnvelope struct {
	EventType string                          `json:"event_type"`
	Data      usecase.TransactionCreatedEvent `json:"data"`
}

// Redis pub/subへ売上イベントを流す
type RedisEventPublisher struct {
	rdb *redis.Client
}

func NewRedisEventPublisher(rdb *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{rdb: rdb}
}

func EventChannel(eventType string) string {
	return eventChannelPrefix + eventType
}

func (p *RedisEventPublisher) PublishTransactionCreated(ctx context.Context, ev usecase.TransactionCreatedEvent) error {
	payload, err := json.Marshal(eventEnvelope{EventType: usecase.EventTransactionCreated, Data: ev})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	//種類別と全体の両方に流す
	if err := p.rdb.Publish(ctx, EventChannel(usecase.EventTransactionCreated), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := p.rdb.Publish(ctx, EventChannelAll, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to all channel: %w", err)
	}
	return nil
}
