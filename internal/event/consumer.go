package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type MessageHandler func(ctx context.Context, d amqp.Delivery)

// Consumer feeds mutation events from a queue bound to the exchange into a
// MessageHandler, one delivery at a time.
type Consumer struct {
	channel     *amqp.Channel
	queueName   string
	consumerTag string
	handler     MessageHandler
	logger      *slog.Logger
	wg          sync.WaitGroup
	cancelFunc  context.CancelFunc
}

// NewConsumer declares the exchange and the queue and binds the queue to all
// customer and invoice routing keys. An empty queueName gets a server named
// exclusive queue, so every instance sees every event.
func NewConsumer(
	conn *amqp.Connection,
	exchangeName, queueName, consumerTag string,
	handler MessageHandler,
	logger *slog.Logger,
) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	logger.Info("Declaring exchange", "name", exchangeName, "type", amqp.ExchangeTopic)
	if err := ch.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}

	durable, exclusive := true, false
	if queueName == "" {
		durable, exclusive = false, true
	}
	logger.Info("Declaring queue", "name", queueName, "durable", durable)
	q, err := ch.QueueDeclare(queueName, durable, !durable, exclusive, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}

	for _, key := range bindingKeys {
		logger.Info("Binding queue", "queue", q.Name, "exchange", exchangeName, "key", key)
		if err := ch.QueueBind(q.Name, key, exchangeName, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to bind queue '%s' with key '%s': %w", q.Name, key, err)
		}
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		channel:     ch,
		queueName:   q.Name,
		consumerTag: consumerTag,
		handler:     handler,
		logger:      logger.With("component", "consumer", "queue", q.Name),
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting message consumption...")
	deliveries, err := c.channel.Consume(c.queueName, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		_ = c.channel.Close()
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		consume(loopCtx, deliveries, c.handler, c.logger)
	}()

	return nil
}

// consume runs handler for each delivery until ctx ends or the channel closes.
func consume(ctx context.Context, deliveries <-chan amqp.Delivery, handler MessageHandler, logger *slog.Logger) {
	logger.Info("Consumer goroutine started.")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Consumer context cancelled. Exiting consumption loop.")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("RabbitMQ delivery channel closed unexpectedly.")
				return
			}
			handler(ctx, d)
		}
	}
}

func (c *Consumer) Stop() {
	if c.cancelFunc == nil {
		c.logger.Warn("Consumer stop called but cancelFunc is nil (maybe never started?)")
		return
	}
	c.logger.Info("Stopping consumer...")

	c.cancelFunc()

	if err := c.channel.Cancel(c.consumerTag, false); err != nil {
		c.logger.Warn("Failed to cancel consumer tag", "tag", c.consumerTag, "error", err)
	}

	c.wg.Wait()
	c.logger.Info("Consumer goroutine finished.")

	if err := c.channel.Close(); err != nil {
		c.logger.Error("Failed to close consumer channel", "error", err)
	}
}
