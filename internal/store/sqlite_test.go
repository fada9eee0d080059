package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jsandoval/daybrief/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCaptureAndDedup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	item, err := s.Capture(ctx, CaptureParams{
		UserID: "u1", ChatID: "c1", Source: "telegram",
		ClientMsgID: "msg-1", Message: "  Buy  MILK tomorrow ",
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if item.MessageNorm != "buy milk tomorrow" {
		t.Errorf("unexpected normalization: %q", item.MessageNorm)
	}

	// Same client message id: no new row.
	dup, err := s.Capture(ctx, CaptureParams{
		UserID: "u1", ChatID: "c1", Source: "telegram",
		ClientMsgID: "msg-1", Message: "  Buy  MILK tomorrow ",
	})
	if err != nil {
		t.Fatalf("capture dup: %v", err)
	}
	if dup.ID != item.ID {
		t.Errorf("expected dedup to return existing id %s, got %s", item.ID, dup.ID)
	}

	turns, err := s.RecentTurns(ctx, "u1", "c1", 10)
	if err != nil {
		t.Fatalf("recent turns: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0] != "telegram: buy milk tomorrow" {
		t.Errorf("unexpected turn rendering: %q", turns[0])
	}
}

func TestCaptureEmptyMessage(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Capture(context.Background(), CaptureParams{UserID: "u1", ChatID: "c1"}); err == nil {
		t.Fatal("expected error for empty message")
	}
}

func TestRecentTurnsOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, msg := range []string{"first", "second", "third"} {
		if _, err := s.Capture(ctx, CaptureParams{UserID: "u1", ChatID: "c1", Message: msg}); err != nil {
			t.Fatalf("capture %q: %v", msg, err)
		}
	}

	turns, _ := s.RecentTurns(ctx, "u1", "c1", 2)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	// Window keeps the newest two, rendered oldest-first.
	if turns[0] != "cli: second" || turns[1] != "cli: third" {
		t.Errorf("unexpected order: %v", turns)
	}
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	task, err := s.CreateTask(ctx, TaskParams{
		UserID: "u1", Title: "Write Report", Priority: 2, ImpactScore: 4,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != model.TaskOpen || task.TitleNorm != "write report" {
		t.Errorf("unexpected task: %+v", task)
	}

	if err := s.SetTaskStatus(ctx, "u1", task.ID, model.TaskDone); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ := s.ListTasks(ctx, "u1", model.TaskDone, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 done task, got %d", len(got))
	}
	if got[0].CompletedAt == nil {
		t.Error("expected completed_at stamped")
	}

	if err := s.SetTaskStatus(ctx, "u1", "missing", model.TaskDone); err == nil {
		t.Error("expected error for unknown task")
	}
	if err := s.SetTaskStatus(ctx, "u1", task.ID, model.TaskStatus("bogus")); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestTaskValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.CreateTask(ctx, TaskParams{UserID: "u1"}); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "x", Priority: 9}); err == nil {
		t.Error("expected error for priority out of range")
	}
	if _, err := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "x", ImpactScore: 7}); err == nil {
		t.Error("expected error for impact out of range")
	}
}

func TestLinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t1, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "a"})
	t2, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "b"})

	_, err := s.Link(ctx, LinkParams{
		UserID: "u1", FromType: model.EntityTask, FromID: t1.ID,
		ToType: model.EntityTask, ToID: t2.ID, LinkType: model.LinkDependsOn,
	})
	if err != nil {
		t.Fatalf("link: %v", err)
	}

	links, err := s.ListLinks(ctx, "u1")
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(links) != 1 || links[0].LinkType != model.LinkDependsOn {
		t.Fatalf("unexpected links: %+v", links)
	}

	// Remove it.
	if _, err := s.Link(ctx, LinkParams{
		UserID: "u1", FromType: model.EntityTask, FromID: t1.ID,
		ToType: model.EntityTask, ToID: t2.ID, LinkType: model.LinkDependsOn, Remove: true,
	}); err != nil {
		t.Fatalf("remove link: %v", err)
	}
	links, _ = s.ListLinks(ctx, "u1")
	if len(links) != 0 {
		t.Errorf("expected 0 links after remove, got %d", len(links))
	}
}

func TestLinkInvalidType(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Link(context.Background(), LinkParams{
		UserID: "u1", FromType: model.EntityTask, FromID: "a",
		ToType: model.EntityTask, ToID: "b", LinkType: model.LinkType("bogus"),
	})
	if err == nil {
		t.Fatal("expected error for invalid link type")
	}
}

func TestSummaryLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if got, err := s.LatestSummary(ctx, "u1", "c1"); err != nil || got != nil {
		t.Fatalf("expected nil summary for empty store, got %v, %v", got, err)
	}

	s.PutSummary(ctx, SummaryParams{
		UserID: "u1", ChatID: "c1", SummaryType: "session",
		SummaryText: "older recap", SourceIDs: []string{"inb_1"},
	})
	s.PutSummary(ctx, SummaryParams{
		UserID: "u1", ChatID: "c1", SummaryType: "daily",
		SummaryText: "newer recap", SourceIDs: []string{"inb_2", "inb_3"},
	})

	got, err := s.LatestSummary(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("latest summary: %v", err)
	}
	if got.SummaryText != "newer recap" {
		t.Errorf("expected newest summary, got %q", got.SummaryText)
	}
	if len(got.SourceIDs) != 2 {
		t.Errorf("provenance lost: %v", got.SourceIDs)
	}
}

func TestSummaryValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.PutSummary(ctx, SummaryParams{UserID: "u1", ChatID: "c1", SummaryType: "session"}); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := s.PutSummary(ctx, SummaryParams{UserID: "u1", ChatID: "c1", SummaryType: "monthly", SummaryText: "x"}); err == nil {
		t.Error("expected error for invalid summary type")
	}
}

func TestEventLogRecordsMutations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Capture(ctx, CaptureParams{UserID: "u1", ChatID: "c1", Message: "hi"})
	task, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "t"})
	s.SetTaskStatus(ctx, "u1", task.ID, model.TaskDone)

	n, err := s.CountEvents(ctx, "u1")
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 events, got %d", n)
	}

	events, err := s.RecentEvents(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].EventType != "task_status_done" {
		t.Errorf("expected newest event task_status_done, got %q", events[0].EventType)
	}
	if events[0].RequestID == "" {
		t.Error("expected a request id on the event")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t1, _ := s.CreateTask(ctx, TaskParams{UserID: "u1", Title: "task one", Priority: 1})
	g1, _ := s.CreateGoal(ctx, GoalParams{UserID: "u1", Title: "goal one"})
	s.CreateProblem(ctx, ProblemParams{UserID: "u1", Title: "problem one", Severity: 3})
	s.Link(ctx, LinkParams{
		UserID: "u1", FromType: model.EntityTask, FromID: t1.ID,
		ToType: model.EntityGoal, ToID: g1.ID, LinkType: model.LinkSupportsGoal,
	})

	ex, err := s.ExportAll(ctx, "u1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(ex.Tasks) != 1 || len(ex.Goals) != 1 || len(ex.Problems) != 1 || len(ex.Links) != 1 {
		t.Fatalf("unexpected export: %+v", ex)
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, "u2", ex)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 imported records, got %d", n)
	}
	links, _ := dst.ListLinks(ctx, "u2")
	if len(links) != 1 {
		t.Fatalf("expected link remapped, got %d", len(links))
	}
	tasks, _ := dst.ListTasks(ctx, "u2", "", 0)
	if links[0].FromID != tasks[0].ID {
		t.Error("link endpoints not remapped to new ids")
	}
}
