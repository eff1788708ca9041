package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/infrastructure/monitoring"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type ChannelOpener func() (Channel, error)

// ConnectionChannels opens a fresh channel on conn for every call.
func ConnectionChannels(conn *amqp.Connection) ChannelOpener {
	return func() (Channel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}
}

type RabbitMQEventPublisher struct {
	open         ChannelOpener
	exchangeName string
	logger       *slog.Logger
	now          func() time.Time
}

var _ mutation.Publisher = (*RabbitMQEventPublisher)(nil)

func NewRabbitMQEventPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	if conn == nil {
		return nil, errors.New("RabbitMQ connection cannot be nil")
	}
	return newRabbitMQEventPublisher(ConnectionChannels(conn), exchangeName, logger)
}

func newRabbitMQEventPublisher(open ChannelOpener, exchangeName string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	if exchangeName == "" {
		return nil, errors.New("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	if err := tempCh.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQEventPublisher{
		open:         open,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQEventPublisher", "exchange", exchangeName),
		now:          time.Now,
	}, nil
}

func (p *RabbitMQEventPublisher) Publish(ctx context.Context, evt mutation.Event) error {
	routingKey := evt.RoutingKey()
	err := p.publish(ctx, routingKey, MutationEvent{
		Entity:    evt.Entity,
		Action:    evt.Action,
		ID:        evt.ID,
		Timestamp: p.now().UTC(),
	})
	if err != nil {
		monitoring.RecordEventPublished(routingKey, "error")
		return err
	}
	monitoring.RecordEventPublished(routingKey, "success")
	return nil
}

func (p *RabbitMQEventPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	channel, err := p.open()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	logCtx.DebugContext(ctx, "Publishing message", "bodySize", len(body))

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
			MessageId:    uuid.NewString(),
			Body:         body,
			AppId:        publisherAppID,
		},
	)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}

// NopPublisher drops events. It stands in when RabbitMQ is disabled.
type NopPublisher struct{}

var _ mutation.Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, mutation.Event) error { return nil }
