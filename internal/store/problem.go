package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jsandoval/daybrief/internal/model"
)

// ProblemParams holds parameters for creating a problem.
type ProblemParams struct {
	UserID   string
	Title    string
	Severity int // 1..5, 0 = unset
}

// CreateProblem stores a new active problem.
func (s *Store) CreateProblem(ctx context.Context, p ProblemParams) (*model.Problem, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("empty title")
	}
	if p.Severity < 0 || p.Severity > 5 {
		return nil, fmt.Errorf("severity %d out of range 1..5", p.Severity)
	}
	now := time.Now().UTC()
	pr := &model.Problem{
		ID:        s.newID("prob"),
		UserID:    p.UserID,
		Title:     p.Title,
		TitleNorm: model.Normalize(p.Title),
		Status:    model.ProblemActive,
		Severity:  p.Severity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO problems (id, user_id, title, title_norm, status, severity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pr.ID, pr.UserID, pr.Title, pr.TitleNorm, pr.Status, nullInt(pr.Severity),
		fmtTime(now), fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert problem: %w", err)
	}
	s.appendEvent(ctx, pr.UserID, "problem_created", "problem", pr.ID)
	return pr, nil
}

// SetProblemStatus transitions a problem.
func (s *Store) SetProblemStatus(ctx context.Context, userID, problemID string, status model.ProblemStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE problems SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		status, fmtTime(time.Now()), problemID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("problem not found: %s", problemID)
	}
	s.appendEvent(ctx, userID, "problem_status_"+string(status), "problem", problemID)
	return nil
}

// ListProblems returns problems for a user, most recently updated first.
func (s *Store) ListProblems(ctx context.Context, userID string, limit int) ([]model.Problem, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, title_norm, status, COALESCE(severity, 0), created_at, updated_at
		 FROM problems WHERE user_id = ?
		 ORDER BY updated_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []model.Problem
	for rows.Next() {
		var p model.Problem
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.TitleNorm, &p.Status,
			&p.Severity, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		problems = append(problems, p)
	}
	return problems, rows.Err()
}
