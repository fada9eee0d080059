package worker

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsandoval/daybrief/internal/config"
	"github.com/jsandoval/daybrief/internal/store"
)

func newTestWorker(t *testing.T) (*Worker, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s, config.Default(), []string{"u1"}, logger), s
}

func TestRefreshPlanWritesCache(t *testing.T) {
	ctx := context.Background()
	w, s := newTestWorker(t)

	if _, err := s.CreateTask(ctx, store.TaskParams{UserID: "u1", Title: "only task"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := w.RefreshPlan(ctx, "u1", time.Now()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	cached, err := s.CachedPlan(ctx, "u1", "today")
	if err != nil {
		t.Fatalf("cached plan: %v", err)
	}
	if cached == nil || len(cached.TodayPlan) != 1 {
		t.Fatalf("expected cached plan with 1 item, got %+v", cached)
	}
}

func TestRefreshPlanEmptyUser(t *testing.T) {
	ctx := context.Background()
	w, s := newTestWorker(t)

	if err := w.RefreshPlan(ctx, "nobody", time.Now()); err != nil {
		t.Fatalf("refresh empty user: %v", err)
	}
	cached, _ := s.CachedPlan(ctx, "nobody", "today")
	if cached == nil || len(cached.TodayPlan) != 0 {
		t.Fatalf("expected cached empty plan, got %+v", cached)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w, _ := newTestWorker(t)
	w.cfg.Worker.CompactSchedule = "not a schedule"
	if err := w.Start(); err == nil {
		w.Stop()
		t.Fatal("expected schedule parse error")
	}
}
