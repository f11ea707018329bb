package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/dhis2-sre/campus-events/pkg/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

// prefetch is the number of unacknowledged deliveries the consumer holds at once
const prefetch = 10

type consumerRepository interface {
	create(ctx context.Context, notification *model.Notification) error
	reminded(ctx context.Context, userId, eventId uint) (bool, error)
}

type sender interface {
	Send(notification model.Notification) int
}

type mailer interface {
	Send(email string, notification model.Notification) error
}

type userFinder interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewConsumer(logger *slog.Logger, connection *amqp.Connection, queue string, repository consumerRepository, broker sender, mailer mailer, users userFinder) (*Consumer, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %v", err)
	}

	err = declareQueue(channel, queue)
	if err != nil {
		_ = channel.Close()
		return nil, err
	}

	err = channel.Qos(prefetch, 0, false)
	if err != nil {
		_ = channel.Close()
		return nil, fmt.Errorf("failed to set prefetch: %v", err)
	}

	return &Consumer{
		logger:     logger,
		channel:    channel,
		queue:      queue,
		repository: repository,
		broker:     broker,
		mailer:     mailer,
		users:      users,
	}, nil
}

// Consumer turns queued messages into persisted notifications. Each notification is pushed to the
// live streams of its user and some types are e-mailed as well.
type Consumer struct {
	logger     *slog.Logger
	channel    *amqp.Channel
	queue      string
	repository consumerRepository
	broker     sender
	mailer     mailer
	users      userFinder
}

// Consume blocks handling deliveries until ctx is done or the channel is closed
func (c *Consumer) Consume(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %q: %v", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("notification delivery channel closed")
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *Consumer) Close() error {
	return c.channel.Close()
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	if delivery.CorrelationId != "" {
		ctx = middleware.NewContextWithCorrelationID(ctx, delivery.CorrelationId)
	}

	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		c.logger.ErrorContext(ctx, "Failed to unmarshal notification message", "error", err)
		c.reject(ctx, delivery, false)
		return
	}

	if err := message.validate(); err != nil {
		c.logger.ErrorContext(ctx, "Invalid notification message", "error", err)
		c.reject(ctx, delivery, false)
		return
	}

	logger := c.logger.With("userId", message.UserID, "type", message.Type)

	if message.Type == model.NotificationEventReminder && message.EventID != nil {
		reminded, err := c.repository.reminded(ctx, message.UserID, *message.EventID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to look up previous reminders", "error", err)
			c.reject(ctx, delivery, true)
			return
		}
		if reminded {
			logger.InfoContext(ctx, "Skipping duplicate reminder", "eventId", *message.EventID)
			c.ack(ctx, delivery)
			return
		}
	}

	notification, err := message.toNotification()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to convert notification message", "error", err)
		c.reject(ctx, delivery, false)
		return
	}

	err = c.repository.create(ctx, notification)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to save notification", "error", err)
		c.reject(ctx, delivery, !errdef.IsNotFound(err))
		return
	}

	delivered := c.broker.Send(*notification)
	logger.InfoContext(ctx, "Saved notification", "notificationId", notification.ID, "streams", delivered)

	if shouldMail(notification.Type) {
		c.mail(ctx, logger, *notification)
	}

	c.ack(ctx, delivery)
}

func shouldMail(notificationType model.NotificationType) bool {
	return notificationType == model.NotificationRegistrationConfirmed || notificationType == model.NotificationEventReminder
}

// mail logs failures, the notification is already persisted
func (c *Consumer) mail(ctx context.Context, logger *slog.Logger, notification model.Notification) {
	user, err := c.users.FindById(ctx, notification.UserID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to find user to e-mail", "error", err)
		return
	}

	err = c.mailer.Send(user.Email, notification)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to e-mail notification", "notificationId", notification.ID, "error", err)
	}
}

func (c *Consumer) ack(ctx context.Context, delivery amqp.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.logger.ErrorContext(ctx, "Failed to acknowledge notification message", "error", err)
	}
}

func (c *Consumer) reject(ctx context.Context, delivery amqp.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		c.logger.ErrorContext(ctx, "Failed to negatively acknowledge notification message", "requeue", requeue, "error", err)
	}
}
