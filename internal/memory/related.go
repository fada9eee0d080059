package memory

import (
	"fmt"

	"github.com/jsandoval/daybrief/internal/model"
)

// Catalog is the in-memory entity snapshot related-entity selection runs
// over. Slices must be ordered most recently updated first; the store's
// queries guarantee that.
type Catalog struct {
	Tasks    []model.Task
	Goals    []model.Goal
	Problems []model.Problem
	Links    []model.EntityLink
}

// RelatedEntities renders the related-entities context layer: the most
// recent tasks, then goals and problems linked to those tasks, then any
// remaining slots filled by recency alone, up to limit lines. Graph
// proximity wins over bare recency, so output is ordered most relevant
// first and safe to trim from the end.
func RelatedEntities(cat Catalog, limit int) []string {
	if limit <= 0 {
		return nil
	}

	taskSlots := limit / 2
	goalSlots := limit / 4
	problemSlots := limit / 4

	tasks := cat.Tasks
	if len(tasks) > taskSlots {
		tasks = tasks[:taskSlots]
	}
	taskIDs := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taskIDs[t.ID] = true
	}

	// Goals/problems directly linked to the selected tasks, in link order.
	linkedGoals := map[string]bool{}
	linkedProblems := map[string]bool{}
	for _, l := range cat.Links {
		if l.FromType != model.EntityTask || !taskIDs[l.FromID] {
			continue
		}
		switch l.ToType {
		case model.EntityGoal:
			linkedGoals[l.ToID] = true
		case model.EntityProblem:
			linkedProblems[l.ToID] = true
		}
	}

	goals := pickLinkedFirst(cat.Goals, goalSlots, func(g model.Goal) string { return g.ID }, linkedGoals)
	problems := pickLinkedFirst(cat.Problems, problemSlots, func(p model.Problem) string { return p.ID }, linkedProblems)

	var out []string
	for _, t := range tasks {
		out = append(out, fmt.Sprintf("Task [%s]: %s (Status: %s)", t.ID, t.Title, t.Status))
	}
	for _, g := range goals {
		out = append(out, fmt.Sprintf("Goal [%s]: %s (Status: %s)", g.ID, g.Title, g.Status))
	}
	for _, p := range problems {
		out = append(out, fmt.Sprintf("Problem [%s]: %s (Status: %s)", p.ID, p.Title, p.Status))
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// pickLinkedFirst selects up to n entities: those whose id is in linked
// first (preserving recency order among them), then the rest by recency.
func pickLinkedFirst[T any](items []T, n int, id func(T) string, linked map[string]bool) []T {
	if n <= 0 {
		return nil
	}
	var picked []T
	seen := map[string]bool{}
	for _, it := range items {
		if len(picked) >= n {
			return picked
		}
		if linked[id(it)] {
			picked = append(picked, it)
			seen[id(it)] = true
		}
	}
	for _, it := range items {
		if len(picked) >= n {
			break
		}
		if !seen[id(it)] {
			picked = append(picked, it)
		}
	}
	return picked
}
