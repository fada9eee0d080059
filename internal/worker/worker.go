// Package worker runs the background jobs: retention compaction of raw
// inbox items and periodic plan cache refresh. Scheduling uses cron
// expressions; the jobs themselves only call into the store and the pure
// planner.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jsandoval/daybrief/internal/config"
	"github.com/jsandoval/daybrief/internal/planner"
	"github.com/jsandoval/daybrief/internal/store"
)

// Worker owns the cron scheduler and its jobs.
type Worker struct {
	store  *store.Store
	cfg    config.Config
	users  []string
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a worker that maintains plans for the given users.
func New(s *store.Store, cfg config.Config, users []string, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:  s,
		cfg:    cfg,
		users:  users,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the cron entries and starts the scheduler.
func (w *Worker) Start() error {
	if _, err := w.cron.AddFunc(w.cfg.Worker.CompactSchedule, w.runCompact); err != nil {
		return fmt.Errorf("schedule compact %q: %w", w.cfg.Worker.CompactSchedule, err)
	}
	if _, err := w.cron.AddFunc(w.cfg.Worker.PlanRefreshSchedule, w.runPlanRefresh); err != nil {
		return fmt.Errorf("schedule plan refresh %q: %w", w.cfg.Worker.PlanRefreshSchedule, err)
	}
	w.cron.Start()
	w.logger.Info("worker started",
		"compact_schedule", w.cfg.Worker.CompactSchedule,
		"plan_refresh_schedule", w.cfg.Worker.PlanRefreshSchedule,
		"users", len(w.users))
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("worker stopped")
}

func (w *Worker) runCompact() {
	jobID := uuid.NewString()
	ctx := context.Background()
	deleted, err := w.store.Compact(ctx, w.cfg.Memory.RetentionDays, time.Now())
	if err != nil {
		w.logger.Error("compact failed", "job_id", jobID, "error", err)
		return
	}
	w.logger.Info("compact done", "job_id", jobID, "deleted", deleted,
		"retention_days", w.cfg.Memory.RetentionDays)
}

func (w *Worker) runPlanRefresh() {
	jobID := uuid.NewString()
	ctx := context.Background()
	for _, userID := range w.users {
		if err := w.RefreshPlan(ctx, userID, time.Now()); err != nil {
			w.logger.Error("plan refresh failed", "job_id", jobID, "user_id", userID, "error", err)
		}
	}
}

// RefreshPlan rebuilds one user's plan from a fresh snapshot and caches it.
// A payload failing its own contract check is replaced by the deterministic
// fallback, and the substitution is logged here, not in the planner.
func (w *Worker) RefreshPlan(ctx context.Context, userID string, now time.Time) error {
	state, err := w.store.PlanningState(ctx, userID)
	if err != nil {
		return fmt.Errorf("collect planning state: %w", err)
	}

	payload := planner.BuildPlan(state, now, w.cfg.Plan)
	if err := planner.Validate(payload); err != nil {
		w.logger.Error("plan failed self-check, substituting fallback",
			"user_id", userID, "error", err)
		payload = planner.Fallback(now)
	}

	if err := w.store.SavePlan(ctx, userID, payload); err != nil {
		return fmt.Errorf("cache plan: %w", err)
	}
	w.logger.Info("plan refreshed", "user_id", userID,
		"today", len(payload.TodayPlan), "next", len(payload.NextActions),
		"blocked", len(payload.BlockedItems))
	return nil
}
