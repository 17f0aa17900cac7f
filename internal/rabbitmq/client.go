package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Albumy/internal/config"
	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed брокер закрыл канал доставки, потребитель больше не получит сообщений
var ErrDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")

// Client представляет собой клиент RabbitMQ.
// Реализует ports.NotificationEventPublisher и ports.NotificationEventConsumer
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient создает и инициализирует новый клиент RabbitMQ
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	client := &Client{logger: logger}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	client.conn = conn
	logger.Info("connected to RabbitMQ")

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	client.channel = ch

	// Объявление очереди идемпотентно
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable - очередь будет сохраняться при перезапуске RabbitMQ
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	client.queue = q
	logger.Info("queue declared", "queue", q.Name, "messages", q.Messages)

	// по одному сообщению на потребителя, пока предыдущее не подтверждено
	if err := ch.Qos(1, 0, false); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return client, nil
}

// Close закрывает соединение и канал RabbitMQ
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ connection", "error", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
}

// PublishNotificationEvent публикует событие, по которому воркер создаст уведомление
func (c *Client) PublishNotificationEvent(ctx context.Context, event payloads.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}
	c.logger.Debug("event published", "queue", c.queue.Name, "kind", event.Kind, "receiver_id", event.ReceiverID)
	return nil
}

// StartConsumingNotificationEvents начинает потребление событий из очереди.
// Сообщения обрабатываются по одному в отдельной горутине до отмены ctx
// или до закрытия канала доставки брокером
func (c *Client) StartConsumingNotificationEvents(ctx context.Context, handler func(context.Context, payloads.NotificationEvent) error) (<-chan error, error) {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := c.consume(ctx, msgs, handler); err != nil {
			done <- err
		}
	}()

	return done, nil
}

// consume читает доставки до отмены ctx или закрытия msgs
func (c *Client) consume(ctx context.Context, msgs <-chan amqp.Delivery, handler func(context.Context, payloads.NotificationEvent) error) error {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Error("RabbitMQ delivery channel closed, stopping consumer")
				return ErrDeliveriesClosed
			}
			c.settle(msg, process(ctx, msg.Body, handler, c.logger))
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping RabbitMQ consumer")
			return nil
		}
	}
}

func (c *Client) settle(msg amqp.Delivery, action deliveryAction) {
	var err error
	switch action {
	case ack:
		err = msg.Ack(false)
	case requeue:
		err = msg.Nack(false, true)
	case drop:
		err = msg.Nack(false, false)
	}
	if err != nil {
		c.logger.Error("failed to settle message", "action", action, "error", err)
	}
}

type deliveryAction string

const (
	ack     deliveryAction = "ack"
	requeue deliveryAction = "requeue"
	drop    deliveryAction = "drop"
)

// process декодирует событие и вызывает handler.
// Битые и неисполнимые события отбрасываются, временные ошибки возвращают сообщение в очередь
func process(ctx context.Context, body []byte, handler func(context.Context, payloads.NotificationEvent) error, logger *slog.Logger) deliveryAction {
	var event payloads.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("failed to unmarshal event", "error", err, "body", string(body))
		return drop
	}

	if err := handler(ctx, event); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
			logger.Warn("dropping unprocessable event", "event", event, "error", err)
			return drop
		}
		logger.Error("failed to process event", "event", event, "error", err)
		return requeue
	}

	logger.Debug("event processed", "kind", event.Kind, "receiver_id", event.ReceiverID)
	return ack
}
