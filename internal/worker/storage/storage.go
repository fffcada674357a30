package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// RecordEvent inserts the event into the activity log. A redelivered event hits the
// event_id unique constraint and is skipped; inserted reports which case occurred.
func (s *Storage) RecordEvent(ctx context.Context, event *activity.Event) (bool, error) {
	query := `
		INSERT INTO activity_events (id, event_id, event_type, actor_id, entity_id, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		event.ID,
		event.Type,
		event.ActorID,
		event.EntityID,
		event.Summary,
		event.OccurredAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		s.logger.Debug("Activity event already recorded",
			slog.String("event_id", event.ID),
		)
		return false, nil
	}

	return true, nil
}
