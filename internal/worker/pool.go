package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/skillbridge/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}

	w.logger.Info("Worker pool spawned",
		slog.Int("worker_count", w.concurrency),
	)
}

// workerLoop drains eventsChan until the dispatcher closes it. Events already
// dispatched are finished even after ctx is canceled.
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	processCtx := context.WithoutCancel(ctx)

	for msg := range w.eventsChan {
		outcome := w.settle(ctx, msg, w.processEvent(processCtx, msg))

		w.logger.Info("Activity event handled",
			slog.String("worker_name", workerName),
			slog.String("event_id", msg.Event.ID),
			slog.String("event_type", msg.Event.Type),
			slog.String("outcome", outcome),
		)
	}

	w.logger.Debug("Worker goroutine stopping - eventsChan closed",
		slog.String("worker_name", workerName),
	)
}

// settle acks or nacks the delivery and returns the outcome label. A requeued
// event is held for requeueDelay first, or until ctx is canceled.
func (w *Worker) settle(ctx context.Context, msg *domain.EventMessage, result processResult) string {
	if result.err != nil {
		requeue := domain.IsRetryable(result.err)

		w.logger.Error("Activity event processing failed",
			slog.String("event_id", msg.Event.ID),
			slog.Bool("requeue", requeue),
			slog.Any("error", result.err),
		)

		if !requeue {
			w.nack(msg.Delivery, false, msg.Event.ID)
			return domain.OutcomeRejected
		}

		w.backoff(ctx)
		w.nack(msg.Delivery, true, msg.Event.ID)
		return domain.OutcomeRequeued
	}

	if err := msg.Delivery.Ack(false); err != nil {
		w.logger.Error("Failed to ACK message",
			slog.String("event_id", msg.Event.ID),
			slog.Any("error", err),
		)
	}

	if result.inserted {
		return domain.OutcomeRecorded
	}
	return domain.OutcomeDuplicate
}

func (w *Worker) backoff(ctx context.Context) {
	timer := time.NewTimer(w.requeueDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
