package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jsandoval/daybrief/internal/model"
)

// appendEvent writes an audit record for a mutation. Best-effort: the event
// log must never fail the mutation it describes.
func (s *Store) appendEvent(ctx context.Context, userID, eventType, entityType, entityID string) {
	s.db.ExecContext(ctx,
		`INSERT INTO event_log (id, request_id, user_id, event_type, entity_type, entity_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.newID("evt"), uuid.NewString(), userID, eventType, entityType, entityID,
		fmtTime(time.Now()))
}

// RecentEvents returns the newest audit records for a user.
func (s *Store) RecentEvents(ctx context.Context, userID string, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, user_id, event_type, COALESCE(entity_type, ''), COALESCE(entity_id, ''), created_at
		 FROM event_log WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.RequestID, &e.UserID, &e.EventType,
			&e.EntityType, &e.EntityID, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEvents returns the number of audit records for a user.
func (s *Store) CountEvents(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_log WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}
