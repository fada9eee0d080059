package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsandoval/daybrief/internal/planner"
)

// SavePlan caches the latest plan payload for (user, window). Caching lives
// here, outside the pure planner, keyed the way callers read it back.
func (s *Store) SavePlan(ctx context.Context, userID string, p planner.Payload) error {
	if err := planner.Validate(p); err != nil {
		return fmt.Errorf("refusing to cache invalid plan: %w", err)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plan_cache (user_id, plan_window, payload_json, generated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, plan_window) DO UPDATE SET payload_json = excluded.payload_json, generated_at = excluded.generated_at`,
		userID, p.PlanWindow, string(b), fmtTime(time.Now()))
	return err
}

// CachedPlan returns the cached plan for (user, window), or nil if absent
// or no longer valid against the contract.
func (s *Store) CachedPlan(ctx context.Context, userID, window string) (*planner.Payload, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload_json FROM plan_cache WHERE user_id = ? AND plan_window = ?`,
		userID, window).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p planner.Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, nil
	}
	if err := planner.Validate(p); err != nil {
		return nil, nil
	}
	return &p, nil
}
