package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jsandoval/daybrief/internal/model"
)

// TaskParams holds parameters for creating a task.
type TaskParams struct {
	UserID            string
	Title             string
	Notes             string
	Priority          int // 1..4, 1 = highest, 0 = unset
	ImpactScore       int // 1..5, 0 = unset
	EstimatedMinutes  int
	DueDate           *time.Time
	SourceInboxItemID string
}

// CreateTask stores a new open task.
func (s *Store) CreateTask(ctx context.Context, p TaskParams) (*model.Task, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("empty title")
	}
	if p.Priority < 0 || p.Priority > 4 {
		return nil, fmt.Errorf("priority %d out of range 1..4", p.Priority)
	}
	if p.ImpactScore < 0 || p.ImpactScore > 5 {
		return nil, fmt.Errorf("impact score %d out of range 1..5", p.ImpactScore)
	}

	now := time.Now().UTC()
	t := &model.Task{
		ID:                s.newID("task"),
		UserID:            p.UserID,
		Title:             p.Title,
		TitleNorm:         model.Normalize(p.Title),
		Notes:             p.Notes,
		Status:            model.TaskOpen,
		Priority:          p.Priority,
		ImpactScore:       p.ImpactScore,
		EstimatedMinutes:  p.EstimatedMinutes,
		DueDate:           p.DueDate,
		SourceInboxItemID: p.SourceInboxItemID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, title_norm, notes, status, priority, impact_score,
		                    estimated_minutes, due_date, source_inbox_item_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.TitleNorm, nullStr(t.Notes), t.Status,
		nullInt(t.Priority), nullInt(t.ImpactScore), nullInt(t.EstimatedMinutes),
		nullTime(t.DueDate), nullStr(t.SourceInboxItemID), fmtTime(now), fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	s.appendEvent(ctx, t.UserID, "task_created", "task", t.ID)
	return t, nil
}

// SetTaskStatus transitions a task and stamps completed_at when done.
func (s *Store) SetTaskStatus(ctx context.Context, userID, taskID string, status model.TaskStatus) error {
	if !model.ValidTaskStatuses[status] {
		return fmt.Errorf("invalid status %q", status)
	}
	now := fmtTime(time.Now())
	var completedAt *string
	if status == model.TaskDone {
		completedAt = &now
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, completed_at = COALESCE(?, completed_at), updated_at = ?
		 WHERE id = ? AND user_id = ?`, status, completedAt, now, taskID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task not found: %s", taskID)
	}
	s.appendEvent(ctx, userID, "task_status_"+string(status), "task", taskID)
	return nil
}

// ListTasks returns tasks for a user, optionally filtered by status, most
// recently updated first.
func (s *Store) ListTasks(ctx context.Context, userID string, status model.TaskStatus, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT id, user_id, title, title_norm, notes, status, priority, impact_score,
	                 estimated_minutes, due_date, source_inbox_item_id, created_at, updated_at, completed_at
	          FROM tasks WHERE user_id = ?`
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

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	var notes, dueDate, sourceID, completedAt sql.NullString
	var priority, impact, estMinutes sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.TitleNorm, &notes, &t.Status,
		&priority, &impact, &estMinutes, &dueDate, &sourceID, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return t, err
	}

	t.Notes = notes.String
	t.Priority = int(priority.Int64)
	t.ImpactScore = int(impact.Int64)
	t.EstimatedMinutes = int(estMinutes.Int64)
	t.SourceInboxItemID = sourceID.String
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	if dueDate.Valid {
		d := parseTime(dueDate.String)
		t.DueDate = &d
	}
	if completedAt.Valid {
		c := parseTime(completedAt.String)
		t.CompletedAt = &c
	}
	return t, nil
}
