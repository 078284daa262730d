package event

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"time"
)

const (
	SupplierCreated = "supplier_created"
	SupplierUpdated = "supplier_updated"
	SupplierDeleted = "supplier_deleted"
)

// Envelope is the wire shape of every published event.
type Envelope struct {
	EventType string `json:"event_type"`
	Timestamp int64  `json:"timestamp"`
	Key       string `json:"key"`
	Payload   any    `json:"payload"`
}

func NewEnvelope(eventType string, payload any, key string, at time.Time) Envelope {
	return Envelope{
		EventType: eventType,
		Timestamp: at.UnixMilli(),
		Key:       key,
		Payload:   payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, topic, eventType string, payload any, key string) error
}
