package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"logistics-auth-service/internal/domain/event"
	"logistics-auth-service/internal/domain/event/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAsyncDeliversAfterCallerContextEnds(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockPublisher(ctrl)

	next.EXPECT().
		Publish(gomock.Any(), "supplier-events", "supplier_created", gomock.Any(), "key-1").
		DoAndReturn(func(ctx context.Context, _, _ string, _ any, _ string) error {
			assert.NoError(t, ctx.Err())
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		})

	a := NewAsync(next, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.Publish(ctx, "supplier-events", "supplier_created", map[string]any{"code": "SUP-1"}, "key-1"))
	require.NoError(t, a.Wait(context.Background()))
}

func TestAsyncSwallowsPublishErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockPublisher(ctrl)
	next.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	a := NewAsync(next, 0)

	assert.NoError(t, a.Publish(context.Background(), "t", "supplier_deleted", nil, "k"))
	assert.NoError(t, a.Wait(context.Background()))
}

func TestAsyncWaitHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockPublisher(ctrl)

	release := make(chan struct{})
	next.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, any, string) error {
			<-release
			return nil
		})

	a := NewAsync(next, time.Minute)
	require.NoError(t, a.Publish(context.Background(), "t", "supplier_updated", nil, "k"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, a.Wait(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, a.Wait(context.Background()))
}

type recordingClient struct {
	topic   string
	qos     byte
	payload []byte
}

func (c *recordingClient) Publish(_ context.Context, topic string, qos byte, _ bool, payload []byte) error {
	c.topic, c.qos, c.payload = topic, qos, payload
	return nil
}

func TestMQTTPublisherWritesEnvelope(t *testing.T) {
	client := &recordingClient{}
	p := NewMQTTPublisher(client, 1)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return at }

	require.NoError(t, p.Publish(context.Background(), "supplier-events", "supplier_created", map[string]any{"code": "SUP-1"}, "k"))

	assert.Equal(t, "supplier-events/supplier_created", client.topic)
	assert.Equal(t, byte(1), client.qos)

	var env event.Envelope
	require.NoError(t, json.Unmarshal(client.payload, &env))
	assert.Equal(t, "supplier_created", env.EventType)
	assert.Equal(t, at.UnixMilli(), env.Timestamp)
	assert.Equal(t, "k", env.Key)
	assert.Equal(t, map[string]any{"code": "SUP-1"}, env.Payload)
}
