package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/logger"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestProcess(t *testing.T) {
	body := []byte(`{"kind":"collect","actor_id":2,"receiver_id":1,"photo_id":7}`)

	tests := []struct {
		name       string
		body       []byte
		handlerErr error
		want       deliveryAction
	}{
		{"ok", body, nil, ack},
		{"malformed json", []byte(`{"kind":`), nil, drop},
		{"invalid event", body, fmt.Errorf("wrap: %w", domain.ErrInvalidInput), drop},
		{"actor gone", body, fmt.Errorf("wrap: %w", domain.ErrNotFound), drop},
		{"db down", body, errors.New("connection refused"), requeue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payloads.NotificationEvent
			handler := func(_ context.Context, e payloads.NotificationEvent) error {
				got = e
				return tt.handlerErr
			}

			assert.Equal(t, tt.want, process(context.Background(), tt.body, handler, logger.Discard()))
			if tt.name == "ok" {
				assert.Equal(t, payloads.NotificationEvent{
					Kind: payloads.EventCollect, ActorID: 2, ReceiverID: 1, PhotoID: 7,
				}, got)
			}
		})
	}
}

func TestConsumeStopsWhenDeliveriesClose(t *testing.T) {
	c := &Client{logger: logger.Discard()}
	msgs := make(chan amqp.Delivery)
	close(msgs)

	err := c.consume(context.Background(), msgs, func(context.Context, payloads.NotificationEvent) error {
		t.Fatal("handler must not be called")
		return nil
	})
	assert.ErrorIs(t, err, ErrDeliveriesClosed)
}

func TestConsumeStopsOnCancel(t *testing.T) {
	c := &Client{logger: logger.Discard()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.consume(ctx, make(chan amqp.Delivery), func(context.Context, payloads.NotificationEvent) error {
		return nil
	})
	assert.NoError(t, err)
}
