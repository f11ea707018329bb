package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dhis2-sre/campus-events/internal/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NewPublisher opens a channel on the connection and declares the queue
func NewPublisher(connection *amqp.Connection, queue string) (*Publisher, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %v", err)
	}

	err = declareQueue(channel, queue)
	if err != nil {
		_ = channel.Close()
		return nil, err
	}

	return &Publisher{channel: channel, queue: queue}, nil
}

// Publisher puts notification messages on a durable queue
type Publisher struct {
	channel *amqp.Channel
	queue   string
}

func declareQueue(channel *amqp.Channel, queue string) error {
	_, err := channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %q: %v", queue, err)
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, message Message) error {
	if err := message.validate(); err != nil {
		return fmt.Errorf("invalid notification message: %v", err)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         string(message.Type),
		Body:         body,
	}
	// the consumer logs with the correlation id of the request that caused the notification
	if id, ok := middleware.GetCorrelationID(ctx); ok {
		publishing.CorrelationId = id
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, publishing)
	if err != nil {
		return fmt.Errorf("failed to publish %s notification for user %d: %v", message.Type, message.UserID, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}
