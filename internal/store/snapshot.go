package store

import (
	"context"

	"github.com/jsandoval/daybrief/internal/config"
	"github.com/jsandoval/daybrief/internal/memory"
	"github.com/jsandoval/daybrief/internal/model"
	"github.com/jsandoval/daybrief/internal/planner"
)

// ContextSnapshot loads the read snapshot the context assembler runs over:
// latest summary, recent turns, and the related-entity layer. Missing data
// degrades to empty layers, never an error surfaced to the assembler.
func (s *Store) ContextSnapshot(ctx context.Context, userID, chatID string, cfg config.Memory) (memory.Snapshot, error) {
	var snap memory.Snapshot

	sum, err := s.LatestSummary(ctx, userID, chatID)
	if err != nil {
		return snap, err
	}
	if sum != nil {
		snap.Summary = "Summary: " + sum.SummaryText
	}

	snap.HotTurns, err = s.RecentTurns(ctx, userID, chatID, cfg.HotTurnsLimit)
	if err != nil {
		return snap, err
	}

	tasks, err := s.ListTasks(ctx, userID, "", cfg.RelatedEntitiesLimit)
	if err != nil {
		return snap, err
	}
	goals, err := s.ListGoals(ctx, userID, "", cfg.RelatedEntitiesLimit)
	if err != nil {
		return snap, err
	}
	problems, err := s.ListProblems(ctx, userID, cfg.RelatedEntitiesLimit)
	if err != nil {
		return snap, err
	}
	links, err := s.ListLinks(ctx, userID)
	if err != nil {
		return snap, err
	}

	snap.Entities = memory.RelatedEntities(memory.Catalog{
		Tasks:    tasks,
		Goals:    goals,
		Problems: problems,
		Links:    links,
	}, cfg.RelatedEntitiesLimit)

	return snap, nil
}

// PlanningState loads the planner snapshot: open candidates, a lookup over
// every non-archived task (so dependencies on done tasks resolve
// correctly), active goals, and all links.
func (s *Store) PlanningState(ctx context.Context, userID string) (planner.State, error) {
	state := planner.State{Lookup: map[string]model.Task{}}

	tasks, err := s.ListTasks(ctx, userID, "", 0)
	if err != nil {
		return state, err
	}
	for _, t := range tasks {
		if t.Status == model.TaskArchived {
			continue
		}
		state.Lookup[t.ID] = t
		if t.Status == model.TaskOpen {
			state.Candidates = append(state.Candidates, t)
		}
	}

	state.Goals, err = s.ListGoals(ctx, userID, model.GoalActive, 0)
	if err != nil {
		return state, err
	}
	state.Links, err = s.ListLinks(ctx, userID)
	if err != nil {
		return state, err
	}
	return state, nil
}
