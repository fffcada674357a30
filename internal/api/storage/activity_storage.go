package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cuongbtq/skillbridge/internal/api/model"
)

type ActivityFilter struct {
	ActorID  string
	PageSize int
	Cursor   *ActivityCursor
}

// ActivityCursor is the (created_at, id) of the last row of the previous page
type ActivityCursor struct {
	CreatedAt time.Time
	ID        string
}

// ListActivity returns up to PageSize+1 rows so callers can tell whether another page exists
func (s *Storage) ListActivity(ctx context.Context, filter ActivityFilter) ([]model.ActivityEvent, error) {
	query := `
		SELECT id, event_id, event_type, actor_id, entity_id, summary, created_at
		FROM activity_events
		WHERE actor_id = $1
	`
	args := []interface{}{filter.ActorID}
	argIdx := 2

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, id DESC"

	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	events := []model.ActivityEvent{}
	if err := s.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, mapError("list activity", err)
	}

	return events, nil
}
