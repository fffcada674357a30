package worker

import (
	"context"
	"fmt"

	"github.com/cuongbtq/skillbridge/internal/worker/domain"
	"github.com/cuongbtq/skillbridge/shared/postgresql"
)

type processResult struct {
	inserted bool
	err      error
}

// processEvent writes one event to the activity log under the per-event timeout.
// Connection and serialization failures come back retryable; anything else
// (e.g. a malformed uuid rejected by Postgres) is final.
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) processResult {
	if w.eventTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.eventTimeout)
		defer cancel()
	}

	inserted, err := w.store.RecordEvent(ctx, msg.Event)
	if err != nil {
		if postgresql.IsTransient(err) {
			return processResult{err: domain.NewRetryableError(err)}
		}
		return processResult{err: fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)}
	}

	return processResult{inserted: inserted}
}
