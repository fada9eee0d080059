// Package planner turns stored tasks, goals, and links into a
// deterministic, dependency-aware daily plan. BuildPlan is pure: identical
// state and clock always produce the identical payload, which is the core
// contract the tests pin down.
package planner

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jsandoval/daybrief/internal/config"
	"github.com/jsandoval/daybrief/internal/model"
)

// SchemaVersion identifies the plan payload shape.
const SchemaVersion = "plan.v1"

// WindowToday is the only plan window the builder produces.
const WindowToday = "today"

// State is the immutable snapshot BuildPlan runs over.
//
// Candidates holds open tasks only; Lookup holds every non-archived task,
// including done and blocked ones, keyed by id. The split matters for
// dependency checks: a dependency on a finished task must resolve as
// satisfied even though the finished task is no candidate.
type State struct {
	Candidates []model.Task
	Lookup     map[string]model.Task
	Goals      []model.Goal
	Links      []model.EntityLink
}

// PlanItem is one ranked entry of the plan.
type PlanItem struct {
	TaskID           string  `json:"task_id"`
	Rank             int     `json:"rank"`
	Title            string  `json:"title"`
	Reason           string  `json:"reason,omitempty"`
	Score            float64 `json:"score,omitempty"`
	EstimatedMinutes int     `json:"estimated_minutes,omitempty"`
}

// BlockedItem is a task excluded from ranking, with its reasons.
type BlockedItem struct {
	TaskID    string   `json:"task_id"`
	Title     string   `json:"title"`
	BlockedBy []string `json:"blocked_by"`
}

// Payload is the deterministic plan output. Field names are part of the
// stable contract consumed by callers, caches, and the rewrite layer.
type Payload struct {
	SchemaVersion string        `json:"schema_version"`
	PlanWindow    string        `json:"plan_window"`
	GeneratedAt   string        `json:"generated_at"`
	TodayPlan     []PlanItem    `json:"today_plan"`
	NextActions   []PlanItem    `json:"next_actions"`
	BlockedItems  []BlockedItem `json:"blocked_items"`
	Fallback      bool          `json:"fallback,omitempty"`
}

// Factor names used in rationale. Rationale only; never ranking input.
const (
	FactorOverdue         = "overdue"
	FactorDueSoon         = "due_soon"
	FactorHighImpact      = "high_impact"
	FactorGoalAlignment   = "goal_alignment"
	FactorDependencyReady = "dependency_ready"
	FactorStale           = "stale"
	FactorQuickWin        = "quick_win"
)

// DetectBlocked classifies candidates against the dependency graph. A task
// is blocked when its own status says so, when any depends_on edge points at
// a task that is not done, or when an incoming blocks edge comes from a task
// that is not done. Blocking status is read once from the lookup per edge,
// never re-derived transitively, so cyclic or mutually-blocking pairs settle
// as permanently blocked instead of looping.
//
// Explicitly blocked tasks from the lookup are reported too, so they reach
// blocked_items even though they were never candidates.
func DetectBlocked(candidates []model.Task, lookup map[string]model.Task, links []model.EntityLink) (ready []string, blocked map[string][]string) {
	blocked = map[string][]string{}

	examine := append([]model.Task(nil), candidates...)
	candidateIDs := map[string]bool{}
	for _, t := range candidates {
		candidateIDs[t.ID] = true
	}
	// Stable order over lookup for deterministic reason lists.
	var lookupIDs []string
	for id := range lookup {
		lookupIDs = append(lookupIDs, id)
	}
	sort.Strings(lookupIDs)
	for _, id := range lookupIDs {
		if t := lookup[id]; t.Status == model.TaskBlocked && !candidateIDs[t.ID] {
			examine = append(examine, t)
		}
	}

	for _, task := range examine {
		var reasons []string
		if task.Status == model.TaskBlocked {
			reasons = append(reasons, "Task status is explicitly set to 'blocked'.")
		}
		for _, l := range links {
			switch {
			case l.LinkType == model.LinkDependsOn && l.FromType == model.EntityTask && l.FromID == task.ID:
				if dep, ok := lookup[l.ToID]; !ok || dep.Status != model.TaskDone {
					reasons = append(reasons, "Depends on unfinished task: "+blockerTitle(lookup, l.ToID))
				}
			case l.LinkType == model.LinkBlocks && l.ToType == model.EntityTask && l.ToID == task.ID:
				if blk, ok := lookup[l.FromID]; !ok || blk.Status != model.TaskDone {
					reasons = append(reasons, "Blocked by unfinished task: "+blockerTitle(lookup, l.FromID))
				}
			}
		}
		if len(reasons) > 0 {
			blocked[task.ID] = reasons
		} else if task.Status == model.TaskOpen {
			ready = append(ready, task.ID)
		}
	}
	return ready, blocked
}

func blockerTitle(lookup map[string]model.Task, id string) string {
	if t, ok := lookup[id]; ok {
		return t.Title
	}
	return "Unknown Task " + id
}

// ScoreTask computes the weighted priority score and its rationale factors
// for a single candidate.
func ScoreTask(task model.Task, state State, now time.Time, w config.Plan) (float64, []string) {
	var score float64
	var factors []string

	if task.DueDate != nil {
		days := daysUntil(now, *task.DueDate)
		switch {
		case days < 0:
			score += w.WeightUrgency * 2
			factors = append(factors, FactorOverdue)
		case days <= 2:
			score += w.WeightUrgency
			factors = append(factors, FactorDueSoon)
		}
	}

	if task.ImpactScore > 0 {
		score += float64(task.ImpactScore) / 5.0 * w.WeightImpact
		if task.ImpactScore >= 4 {
			factors = append(factors, FactorHighImpact)
		}
	}

	if alignedToActiveGoal(task, state) {
		score += w.WeightGoalAlignment
		factors = append(factors, FactorGoalAlignment)
	}

	if stale := now.Sub(task.UpdatedAt).Hours() / 24; stale > 7 {
		score += math.Min(stale/30.0, 1.0) * w.WeightStaleness
		factors = append(factors, FactorStale)
	}

	if task.Priority == 4 {
		score += 0.5
		factors = append(factors, FactorQuickWin)
	}

	// Bookkeeping only: blocked tasks never reach ranking, but the penalty
	// keeps their rationale consistent if one is scored directly.
	if task.Status == model.TaskBlocked {
		score -= w.WeightBlockerPenalty
	}

	return score, factors
}

func alignedToActiveGoal(task model.Task, state State) bool {
	active := map[string]bool{}
	for _, g := range state.Goals {
		if g.Status == model.GoalActive {
			active[g.ID] = true
		}
	}
	for _, l := range state.Links {
		if l.FromType != model.EntityTask || l.FromID != task.ID {
			continue
		}
		if l.LinkType == model.LinkSupportsGoal || l.ToType == model.EntityGoal {
			if active[l.ToID] {
				return true
			}
		}
	}
	return false
}

// daysUntil is the whole-day distance from now's date to the due date,
// negative when past due.
func daysUntil(now, due time.Time) int {
	ny, nm, nd := now.UTC().Date()
	dy, dm, dd := due.UTC().Date()
	a := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	b := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

type scoredTask struct {
	task    model.Task
	score   float64
	factors []string
}

// BuildPlan ranks ready candidates and partitions them into today, next,
// and blocked buckets. Ties break by score desc, earlier due date (nulls
// last), higher priority (lower number first), older updated_at, then
// lexical task id, giving a total order and byte-identical output for
// identical input.
func BuildPlan(state State, now time.Time, cfg config.Plan) Payload {
	readyIDs, blockedMap := DetectBlocked(state.Candidates, state.Lookup, state.Links)

	readySet := map[string]bool{}
	for _, id := range readyIDs {
		readySet[id] = true
	}

	var scored []scoredTask
	for _, t := range state.Candidates {
		if !readySet[t.ID] {
			continue
		}
		s, factors := ScoreTask(t, state, now, cfg)
		scored = append(scored, scoredTask{task: t, score: s, factors: factors})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if c := compareDue(a.task.DueDate, b.task.DueDate); c != 0 {
			return c < 0
		}
		if pa, pb := normPriority(a.task.Priority), normPriority(b.task.Priority); pa != pb {
			return pa < pb
		}
		if !a.task.UpdatedAt.Equal(b.task.UpdatedAt) {
			return a.task.UpdatedAt.Before(b.task.UpdatedAt)
		}
		return a.task.ID < b.task.ID
	})

	payload := Payload{
		SchemaVersion: SchemaVersion,
		PlanWindow:    WindowToday,
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		TodayPlan:     []PlanItem{},
		NextActions:   []PlanItem{},
		BlockedItems:  []BlockedItem{},
	}

	for i, st := range scored {
		if i >= cfg.TopNToday+cfg.TopNNext {
			break
		}
		item := planItem(st, i+1)
		if i < cfg.TopNToday {
			payload.TodayPlan = append(payload.TodayPlan, item)
		} else {
			payload.NextActions = append(payload.NextActions, item)
		}
	}

	// Deterministic blocked order: ascending task id.
	var blockedIDs []string
	for id := range blockedMap {
		blockedIDs = append(blockedIDs, id)
	}
	sort.Strings(blockedIDs)
	for _, id := range blockedIDs {
		payload.BlockedItems = append(payload.BlockedItems, BlockedItem{
			TaskID:    id,
			Title:     blockerTitle(state.Lookup, id),
			BlockedBy: blockedMap[id],
		})
	}

	return payload
}

func planItem(st scoredTask, rank int) PlanItem {
	factors := st.factors
	if len(factors) == 0 {
		factors = []string{FactorDependencyReady}
	}
	return PlanItem{
		TaskID:           st.task.ID,
		Rank:             rank,
		Title:            st.task.Title,
		Reason:           reasonText(factors),
		Score:            round2(st.score),
		EstimatedMinutes: st.task.EstimatedMinutes,
	}
}

func reasonText(factors []string) string {
	out := factors[0]
	for _, f := range factors[1:] {
		out += ", " + f
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// compareDue orders due dates ascending with nil last.
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	}
	return 0
}

// normPriority maps the 1..4 priority scale (1 = highest) for sorting;
// unset sorts last.
func normPriority(p int) int {
	if p <= 0 {
		return 99
	}
	return p
}

// Fallback is the deterministic substitute payload used when a produced or
// rewritten plan fails validation.
func Fallback(now time.Time) Payload {
	return Payload{
		SchemaVersion: SchemaVersion,
		PlanWindow:    WindowToday,
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		TodayPlan:     []PlanItem{},
		NextActions:   []PlanItem{},
		BlockedItems:  []BlockedItem{},
		Fallback:      true,
	}
}

// Validate checks a payload against the plan contract: schema version,
// monotonic ranks, non-empty ids/titles, and non-empty blocked reasons.
func Validate(p Payload) error {
	if p.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema_version %q, want %q", p.SchemaVersion, SchemaVersion)
	}
	if p.GeneratedAt == "" {
		return fmt.Errorf("generated_at missing")
	}
	rank := 0
	for _, it := range append(append([]PlanItem{}, p.TodayPlan...), p.NextActions...) {
		if it.TaskID == "" || it.Title == "" {
			return fmt.Errorf("plan item missing task_id or title")
		}
		if it.Rank != rank+1 {
			return fmt.Errorf("rank %d out of sequence", it.Rank)
		}
		rank = it.Rank
	}
	for _, b := range p.BlockedItems {
		if b.TaskID == "" || len(b.BlockedBy) == 0 {
			return fmt.Errorf("blocked item %q missing reasons", b.TaskID)
		}
	}
	return nil
}
