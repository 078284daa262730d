package broker

import (
	"context"

	"logistics-auth-service/internal/logger"

	"go.uber.org/zap"
)

// LogPublisher records events in the service log. Used when EVENT_BROKER=none.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, topic, eventType string, payload any, key string) error {
	logger.Info("Event published",
		zap.String("topic", topic),
		zap.String("event_type", eventType),
		zap.String("key", key),
		zap.Any("payload", payload),
		zap.String("event", "event_logged"),
	)
	return nil
}
