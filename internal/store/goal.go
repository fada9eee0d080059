package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jsandoval/daybrief/internal/model"
)

// GoalParams holds parameters for creating a goal.
type GoalParams struct {
	UserID     string
	Title      string
	Horizon    string
	TargetDate *time.Time
}

// CreateGoal stores a new active goal.
func (s *Store) CreateGoal(ctx context.Context, p GoalParams) (*model.Goal, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("empty title")
	}
	now := time.Now().UTC()
	g := &model.Goal{
		ID:         s.newID("goal"),
		UserID:     p.UserID,
		Title:      p.Title,
		TitleNorm:  model.Normalize(p.Title),
		Status:     model.GoalActive,
		Horizon:    p.Horizon,
		TargetDate: p.TargetDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, title, title_norm, status, horizon, target_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, g.TitleNorm, g.Status, nullStr(g.Horizon),
		nullTime(g.TargetDate), fmtTime(now), fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	s.appendEvent(ctx, g.UserID, "goal_created", "goal", g.ID)
	return g, nil
}

// SetGoalStatus transitions a goal.
func (s *Store) SetGoalStatus(ctx context.Context, userID, goalID string, status model.GoalStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		status, fmtTime(time.Now()), goalID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal not found: %s", goalID)
	}
	s.appendEvent(ctx, userID, "goal_status_"+string(status), "goal", goalID)
	return nil
}

// ListGoals returns goals for a user, optionally filtered by status, most
// recently updated first.
func (s *Store) ListGoals(ctx context.Context, userID string, status model.GoalStatus, limit int) ([]model.Goal, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT id, user_id, title, title_norm, status, horizon, target_date, created_at, updated_at
	          FROM goals WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY updated_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		var g model.Goal
		var horizon, targetDate sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.TitleNorm, &g.Status,
			&horizon, &targetDate, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		g.Horizon = horizon.String
		g.CreatedAt = parseTime(createdAt)
		g.UpdatedAt = parseTime(updatedAt)
		if targetDate.Valid {
			d := parseTime(targetDate.String)
			g.TargetDate = &d
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
