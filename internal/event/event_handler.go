package event

import (
	"context"
	"encoding/json"
	"log/slog"

	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/infrastructure/monitoring"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InvalidationHandler drops local views when a mutation event arrives.
type InvalidationHandler struct {
	invalidator mutation.Invalidator
	logger      *slog.Logger
}

func NewInvalidationHandler(invalidator mutation.Invalidator, logger *slog.Logger) *InvalidationHandler {
	return &InvalidationHandler{
		invalidator: invalidator,
		logger:      logger.With("component", "InvalidationHandler"),
	}
}

func (h *InvalidationHandler) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := h.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey))
	monitoring.RecordEventReceived(d.RoutingKey)

	path, ok := pathForRoutingKey(d.RoutingKey)
	if !ok {
		logCtx.WarnContext(ctx, "Received message with unknown routing key. Discarding.")
		_ = d.Reject(false)
		return
	}

	var evt MutationEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		logCtx.ErrorContext(ctx, "Failed to unmarshal mutation event", "error", err, "body", string(d.Body))
		_ = d.Nack(false, false)
		return
	}

	if err := h.invalidator.Invalidate(ctx, path); err != nil {
		logCtx.ErrorContext(ctx, "Failed to invalidate views", "path", path, "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := d.Ack(false); err != nil {
		logCtx.ErrorContext(ctx, "Failed to acknowledge message after successful processing", "error", err)
		return
	}
	logCtx.DebugContext(ctx, "Invalidated views for event", "path", path, "id", evt.ID)
}
