package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"logistics-auth-service/internal/domain/event"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher sends persistent JSON messages to a durable queue named after
// the topic, through the default exchange. The channel is opened lazily and
// reopened after a failure.
type AMQPPublisher struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
	now      func() time.Time
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{
		url:      url,
		declared: make(map[string]bool),
		now:      time.Now,
	}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
	p.declared = make(map[string]bool)
}

func (p *AMQPPublisher) Publish(ctx context.Context, topic, eventType string, payload any, key string) error {
	body, err := json.Marshal(event.NewEnvelope(eventType, payload, key, p.now()))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if !p.declared[topic] {
		if _, err := ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			p.reset()
			return fmt.Errorf("amqp queue declare: %w", err)
		}
		p.declared[topic] = true
	}

	err = ch.PublishWithContext(ctx, "", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		MessageId:    key,
		Type:         eventType,
		Body:         body,
	})
	if err != nil {
		p.reset()
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
