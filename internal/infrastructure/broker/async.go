// Package broker adapts message brokers to event.Publisher.
package broker

import (
	"context"
	"sync"
	"time"

	"logistics-auth-service/internal/domain/event"
	"logistics-auth-service/internal/logger"

	"go.uber.org/zap"
)

// Async hands each event to a goroutine and returns immediately. Failures are
// logged; callers never see them.
type Async struct {
	next    event.Publisher
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next event.Publisher, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Async{next: next, timeout: timeout}
}

func (a *Async) Publish(ctx context.Context, topic, eventType string, payload any, key string) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		if err := a.next.Publish(pubCtx, topic, eventType, payload, key); err != nil {
			logger.Error("Failed to publish event",
				zap.String("topic", topic),
				zap.String("event_type", eventType),
				zap.String("key", key),
				zap.String("event", "event_publish_failed"),
				zap.Error(err),
			)
			return
		}
		logger.Debug("Event published",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.String("key", key),
		)
	}()
	return nil
}

// Wait blocks until in-flight publishes finish or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
