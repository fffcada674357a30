package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer applies QoS and starts consuming with manual acknowledgement
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	if err := w.consumer.Qos(w.prefetchCount); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	w.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", w.prefetchCount),
	)

	deliveries, err := w.consumer.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	return deliveries, nil
}

// startMessageDispatcher decodes deliveries and hands them to the pool. Bodies that
// are not valid events are rejected without requeue so they reach the dead-letter path.
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			event, err := activity.Decode(delivery.Body)
			if err != nil {
				w.logger.Error("Discarding malformed activity event",
					slog.Any("error", err),
					slog.String("message_id", delivery.MessageId),
					slog.String("routing_key", delivery.RoutingKey),
				)
				w.nack(delivery, false, "")
				continue
			}

			msg := &domain.EventMessage{Event: event, Delivery: delivery}

			select {
			case w.eventsChan <- msg:
				w.logger.Debug("Event dispatched to worker pool",
					slog.String("event_id", event.ID),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				w.logger.Info("Message dispatcher stopped while dispatching event")
				w.nack(delivery, true, event.ID)
				return
			}
		}
	}
}

func (w *Worker) nack(delivery amqp.Delivery, requeue bool, eventID string) {
	if err := delivery.Nack(false, requeue); err != nil {
		w.logger.Error("Failed to NACK message",
			slog.String("event_id", eventID),
			slog.Bool("requeue", requeue),
			slog.Any("error", err),
		)
	}
}
