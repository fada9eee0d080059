// Package memory assembles token-bounded, layered context payloads for LLM
// calls. Assembly is a pure function over a snapshot the caller loads; it
// performs no I/O and never fails, so it is safe from any concurrency model.
package memory

import (
	"strings"

	"github.com/jsandoval/daybrief/internal/config"
	"github.com/jsandoval/daybrief/internal/tokens"
)

// SystemPolicy is the fixed first layer of every assembled context. It is
// never trimmed.
const SystemPolicy = "You are a helpful assistant managing tasks, goals, and problems. " +
	"Use the provided context to answer accurately. " +
	"Prioritize recent information and linked entities."

const truncMarker = "... [truncated]"

// Snapshot is the read-only input to Assemble. The caller (store, test
// harness) renders each layer to strings before invoking.
type Snapshot struct {
	// Summary is the rendered most recent memory summary, empty if none.
	Summary string
	// HotTurns are rendered recent inbox turns, oldest-first.
	HotTurns []string
	// Entities are rendered related entities, most relevant first.
	Entities []string
}

// Budget reports requested versus applied versus estimated spend.
type Budget struct {
	Requested     int `json:"requested"`
	Applied       int `json:"applied"`
	EstimatedUsed int `json:"estimated_used"`
}

// Sources counts the surviving content per layer.
type Sources struct {
	HotTurnsCount  int `json:"hot_turns_count"`
	SummariesCount int `json:"summaries_count"`
	EntitiesCount  int `json:"entities_count"`
}

// Metadata carries observability flags for the caller to log.
type Metadata struct {
	TokenEstimator      string `json:"token_estimator"`
	BudgetTruncatedCore bool   `json:"budget_truncated_core"`
}

// Envelope is the assembled context payload. Field names are part of the
// stable contract consumed by callers and caches.
type Envelope struct {
	Budget   Budget   `json:"budget"`
	Sources  Sources  `json:"sources"`
	Context  []string `json:"context"`
	Metadata Metadata `json:"metadata"`
}

// EstimateUsed estimates the token cost of an assembled context: the layers
// joined by newlines, as they would be sent to a provider.
func EstimateUsed(layers []string, est tokens.Estimator) int {
	return est(strings.Join(layers, "\n"))
}

// Assemble builds the layered context for a query under a hard token budget.
// Layers appear in fixed order: policy, summary, hot turns, related
// entities, query. When the estimate exceeds the applied budget, content is
// trimmed progressively: hot turns oldest-first, then entities
// lowest-relevance-first, then the summary, and only as a last resort the
// query text itself. The returned envelope always satisfies
// EstimatedUsed <= Applied.
func Assemble(snap Snapshot, query string, maxTokens int, cfg config.Memory, est tokens.Estimator) Envelope {
	if est == nil {
		est = tokens.Estimate
	}
	ceiling := cfg.ContextMaxTokens
	if ceiling <= 0 {
		ceiling = config.Default().Memory.ContextMaxTokens
	}
	requested := maxTokens
	if requested <= 0 {
		requested = ceiling
	}
	applied := requested
	if applied > ceiling {
		applied = ceiling
	}

	summary := snap.Summary
	hot := append([]string(nil), snap.HotTurns...)
	entities := append([]string(nil), snap.Entities...)
	queryLayer := "Query: " + query
	truncated := false

	// Infeasible floor: policy and query alone exceed the budget. Truncate
	// the query to a character length derived from the estimator's formula
	// so the invariant holds in one pass, and drop every optional layer.
	if EstimateUsed([]string{SystemPolicy, queryLayer}, est) > applied {
		truncated = true
		summary, hot, entities = "", nil, nil
		queryLayer = truncateQueryLayer(query, applied)
	}

	build := func() []string {
		layers := []string{SystemPolicy}
		if summary != "" {
			layers = append(layers, summary)
		}
		layers = append(layers, hot...)
		layers = append(layers, entities...)
		layers = append(layers, queryLayer)
		return layers
	}

	// Progressive trimming with a recheck after every step.
	for len(hot) > 0 && EstimateUsed(build(), est) > applied {
		hot = hot[1:]
	}
	for len(entities) > 0 && EstimateUsed(build(), est) > applied {
		entities = entities[:len(entities)-1]
	}
	if summary != "" && EstimateUsed(build(), est) > applied {
		summary = ""
	}
	if EstimateUsed(build(), est) > applied {
		truncated = true
		queryLayer = truncateQueryLayer(query, applied)
	}

	layers := build()

	// Emergency clamp for budgets too small to carry even the policy: cut
	// the joined payload to the estimator's safe character count. Degenerate
	// single-layer output, but the budget invariant holds unconditionally.
	if EstimateUsed(layers, est) > applied {
		truncated = true
		joined := strings.Join(layers, "\n")
		safe := tokens.MaxChars(applied)
		if safe > len(joined) {
			safe = len(joined)
		}
		layers = []string{joined[:safe]}
		hot, entities, summary = nil, nil, ""
	}

	return Envelope{
		Budget: Budget{
			Requested:     requested,
			Applied:       applied,
			EstimatedUsed: EstimateUsed(layers, est),
		},
		Sources: Sources{
			HotTurnsCount:  len(hot),
			SummariesCount: boolCount(summary != ""),
			EntitiesCount:  len(entities),
		},
		Context: layers,
		Metadata: Metadata{
			TokenEstimator:      "heuristic",
			BudgetTruncatedCore: truncated,
		},
	}
}

// truncateQueryLayer shortens the query so that policy + query alone fit the
// budget. The character limit is algebraic, not a retry loop: with the
// default estimator, total characters must stay within tokens.MaxChars.
func truncateQueryLayer(query string, applied int) string {
	const prefix = "Query: "
	// Joined payload is SystemPolicy + "\n" + prefix + query + marker.
	fixed := len(SystemPolicy) + 1 + len(prefix) + len(truncMarker)
	limit := tokens.MaxChars(applied) - fixed
	if limit <= 0 {
		return prefix + "[truncated]"
	}
	if len(query) > limit {
		query = query[:limit]
	}
	return prefix + query + truncMarker
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
