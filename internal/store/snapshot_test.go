package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jsandoval/daybrief/internal/config"
	"github.com/jsandoval/daybrief/internal/model"
	"github.com/jsandoval/daybrief/internal/planner"
)

func TestContextSnapshotLayers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	cfg := config.Default().Memory

	s.Capture(ctx, CaptureParams{UserID: "u1", ChatID: "c1", Message: "morning standup notes"})
	s.PutSummary(ctx, SummaryParams{
		UserID: "u1", ChatID: "c1", SummaryType: "session", SummaryText: "working on launch",
	})
	task, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "prepare slides"})
	goal, _ := s.CreateGoal(ctx, GoalParams{UserID: "u1", Title: "ship v1"})
	s.Link(ctx, LinkParams{
		UserID: "u1", FromType: model.EntityTask, FromID: task.ID,
		ToType: model.EntityGoal, ToID: goal.ID, LinkType: model.LinkSupportsGoal,
	})

	snap, err := s.ContextSnapshot(ctx, "u1", "c1", cfg)
	if err != nil {
		t.Fatalf("context snapshot: %v", err)
	}
	if snap.Summary != "Summary: working on launch" {
		t.Errorf("unexpected summary layer: %q", snap.Summary)
	}
	if len(snap.HotTurns) != 1 || snap.HotTurns[0] != "cli: morning standup notes" {
		t.Errorf("unexpected hot turns: %v", snap.HotTurns)
	}
	var hasTask, hasGoal bool
	for _, e := range snap.Entities {
		if strings.HasPrefix(e, "Task ["+task.ID+"]") {
			hasTask = true
		}
		if strings.HasPrefix(e, "Goal ["+goal.ID+"]") {
			hasGoal = true
		}
	}
	if !hasTask || !hasGoal {
		t.Errorf("expected linked task and goal in entities: %v", snap.Entities)
	}
}

func TestContextSnapshotEmptyStore(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.ContextSnapshot(context.Background(), "u1", "c1", config.Default().Memory)
	if err != nil {
		t.Fatalf("context snapshot: %v", err)
	}
	if snap.Summary != "" || len(snap.HotTurns) != 0 || len(snap.Entities) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestPlanningStateSplit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	open, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "open task"})
	done, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "done task"})
	s.SetTaskStatus(ctx, "u1", done.ID, model.TaskDone)
	archived, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "archived task"})
	s.SetTaskStatus(ctx, "u1", archived.ID, model.TaskArchived)

	state, err := s.PlanningState(ctx, "u1")
	if err != nil {
		t.Fatalf("planning state: %v", err)
	}
	if len(state.Candidates) != 1 || state.Candidates[0].ID != open.ID {
		t.Errorf("candidates must be open tasks only: %+v", state.Candidates)
	}
	if _, ok := state.Lookup[done.ID]; !ok {
		t.Error("done task must stay in lookup for dependency checks")
	}
	if _, ok := state.Lookup[archived.ID]; ok {
		t.Error("archived task must not be in lookup")
	}
}

func TestPlanningStateEndToEnd(t *testing.T) {
	// Scenario: T1 depends on done T2 (plannable), T3 depends on open T4
	// (blocked). Full path from store rows to plan payload.
	ctx := context.Background()
	s := newTestStore(t)

	t1, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "T1"})
	t2, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "T2"})
	s.SetTaskStatus(ctx, "u1", t2.ID, model.TaskDone)
	t3, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "T3"})
	t4, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "T4"})

	link := func(from, to string) {
		if _, err := s.Link(ctx, LinkParams{
			UserID: "u1", FromType: model.EntityTask, FromID: from,
			ToType: model.EntityTask, ToID: to, LinkType: model.LinkDependsOn,
		}); err != nil {
			t.Fatalf("link: %v", err)
		}
	}
	link(t1.ID, t2.ID)
	link(t3.ID, t4.ID)

	state, err := s.PlanningState(ctx, "u1")
	if err != nil {
		t.Fatalf("planning state: %v", err)
	}
	p := planner.BuildPlan(state, time.Now(), config.Default().Plan)

	ranked := map[string]bool{}
	for _, it := range append(p.TodayPlan, p.NextActions...) {
		ranked[it.TaskID] = true
	}
	if !ranked[t1.ID] {
		t.Error("T1 depends on a done task and must be ranked")
	}
	if ranked[t3.ID] {
		t.Error("T3 depends on an open task and must not be ranked")
	}
	var blockedT3 bool
	for _, b := range p.BlockedItems {
		if b.TaskID == t3.ID && len(b.BlockedBy) > 0 {
			blockedT3 = true
		}
	}
	if !blockedT3 {
		t.Errorf("T3 missing from blocked_items: %+v", p.BlockedItems)
	}
}

func TestCompactRespectsRetentionAndReferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	old, _ := s.Capture(ctx, CaptureParams{UserID: "u1", ChatID: "c1", Message: "old unreferenced"})
	ref, _ := s.Capture(ctx, CaptureParams{UserID: "u1", ChatID: "c1", Message: "old referenced"})
	fresh, _ := s.Capture(ctx, CaptureParams{UserID: "u1", ChatID: "c1", Message: "fresh"})
	s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "from inbox", SourceInboxItemID: ref.ID})

	// Age the first two items beyond the window.
	past := fmtTime(time.Now().AddDate(0, 0, -45))
	for _, id := range []string{old.ID, ref.ID} {
		if _, err := s.db.Exec(`UPDATE inbox_items SET received_at = ? WHERE id = ?`, past, id); err != nil {
			t.Fatalf("age item: %v", err)
		}
	}

	deleted, err := s.Compact(ctx, 30, time.Now())
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected exactly 1 deletion, got %d", deleted)
	}

	turns, _ := s.RecentTurns(ctx, "u1", "c1", 10)
	if len(turns) != 2 {
		t.Fatalf("expected 2 surviving items, got %d: %v", len(turns), turns)
	}
	_ = fresh
}

func TestCompactZeroRetentionIsNoop(t *testing.T) {
	s := newTestStore(t)
	n, err := s.Compact(context.Background(), 0, time.Now())
	if err != nil || n != 0 {
		t.Errorf("expected noop, got %d, %v", n, err)
	}
}

func TestPlanCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := planner.Fallback(time.Now())
	p.Fallback = false
	if err := s.SavePlan(ctx, "u1", p); err != nil {
		t.Fatalf("save plan: %v", err)
	}

	got, err := s.CachedPlan(ctx, "u1", "today")
	if err != nil {
		t.Fatalf("cached plan: %v", err)
	}
	if got == nil || got.SchemaVersion != planner.SchemaVersion {
		t.Fatalf("unexpected cached plan: %+v", got)
	}

	if got, _ := s.CachedPlan(ctx, "u1", "week"); got != nil {
		t.Error("expected cache miss for unknown window")
	}
}

func TestSavePlanRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	p := planner.Fallback(time.Now())
	p.SchemaVersion = "nope"
	if err := s.SavePlan(context.Background(), "u1", p); err == nil {
		t.Error("expected validation error on save")
	}
}
