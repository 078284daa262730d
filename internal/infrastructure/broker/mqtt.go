package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"logistics-auth-service/internal/domain/event"
	"logistics-auth-service/pkg/mqtt"
)

type mqttClient interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher publishes JSON envelopes to "<topic>/<event_type>".
type MQTTPublisher struct {
	client mqttClient
	qos    byte
	now    func() time.Time
}

func NewMQTTPublisher(client mqttClient, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, qos: qos, now: time.Now}
}

var _ mqttClient = (*mqtt.Client)(nil)

func (p *MQTTPublisher) Publish(ctx context.Context, topic, eventType string, payload any, key string) error {
	body, err := json.Marshal(event.NewEnvelope(eventType, payload, key, p.now()))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, topic+"/"+eventType, p.qos, false, body); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}
