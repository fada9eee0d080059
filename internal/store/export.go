package store

import (
	"context"

	"github.com/jsandoval/daybrief/internal/model"
)

// Export is a portable snapshot of one user's entities for backup.
type Export struct {
	Tasks    []model.Task       `json:"tasks,omitempty"`
	Goals    []model.Goal       `json:"goals,omitempty"`
	Problems []model.Problem    `json:"problems,omitempty"`
	Links    []model.EntityLink `json:"links,omitempty"`
}

// ExportAll returns every task, goal, problem, and link for a user.
func (s *Store) ExportAll(ctx context.Context, userID string) (*Export, error) {
	tasks, err := s.ListTasks(ctx, userID, "", 0)
	if err != nil {
		return nil, err
	}
	goals, err := s.ListGoals(ctx, userID, "", 0)
	if err != nil {
		return nil, err
	}
	problems, err := s.ListProblems(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	links, err := s.ListLinks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Export{Tasks: tasks, Goals: goals, Problems: problems, Links: links}, nil
}

// Import stores entities from an export, generating fresh ids for tasks,
// goals, and problems. Links are skipped when either endpoint was remapped
// away (same-id links get rewritten through the id map).
func (s *Store) Import(ctx context.Context, userID string, ex *Export) (int, error) {
	imported := 0
	idMap := map[string]string{}

	for _, t := range ex.Tasks {
		created, err := s.CreateTask(ctx, TaskParams{
			UserID: userID, Title: t.Title, Notes: t.Notes,
			Priority: t.Priority, ImpactScore: t.ImpactScore,
			EstimatedMinutes: t.EstimatedMinutes, DueDate: t.DueDate,
		})
		if err != nil {
			return imported, err
		}
		if t.Status != model.TaskOpen {
			if err := s.SetTaskStatus(ctx, userID, created.ID, t.Status); err != nil {
				return imported, err
			}
		}
		idMap[t.ID] = created.ID
		imported++
	}
	for _, g := range ex.Goals {
		created, err := s.CreateGoal(ctx, GoalParams{
			UserID: userID, Title: g.Title, Horizon: g.Horizon, TargetDate: g.TargetDate,
		})
		if err != nil {
			return imported, err
		}
		if g.Status != model.GoalActive {
			if err := s.SetGoalStatus(ctx, userID, created.ID, g.Status); err != nil {
				return imported, err
			}
		}
		idMap[g.ID] = created.ID
		imported++
	}
	for _, p := range ex.Problems {
		created, err := s.CreateProblem(ctx, ProblemParams{
			UserID: userID, Title: p.Title, Severity: p.Severity,
		})
		if err != nil {
			return imported, err
		}
		idMap[p.ID] = created.ID
		imported++
	}
	for _, l := range ex.Links {
		fromID, okFrom := idMap[l.FromID]
		toID, okTo := idMap[l.ToID]
		if !okFrom || !okTo {
			continue
		}
		if _, err := s.Link(ctx, LinkParams{
			UserID: userID, FromType: l.FromType, FromID: fromID,
			ToType: l.ToType, ToID: toID, LinkType: l.LinkType,
		}); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
