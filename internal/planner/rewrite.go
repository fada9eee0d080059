package planner

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RewriteResult is a tagged outcome of validating an LLM-rewritten plan:
// either the merged payload or the reason it was rejected. Callers fall back
// to the deterministic payload on Invalid and own the audit logging.
type RewriteResult struct {
	Valid   bool
	Reason  string
	Payload Payload
}

func invalid(format string, args ...any) RewriteResult {
	return RewriteResult{Valid: false, Reason: fmt.Sprintf(format, args...)}
}

var allowedTopLevel = map[string]bool{
	"schema_version": true,
	"plan_window":    true,
	"generated_at":   true,
	"today_plan":     true,
	"next_actions":   true,
	"blocked_items":  true,
	"fallback":       true,
}

// ApplyRewrite merges a provider-rewritten plan into the deterministic base
// payload. Only the natural-language reason fields may change: task ids,
// ordering, ranks, scores, and every other field come from the base. The
// rewritten JSON is treated as untrusted and probed with gjson before any
// of it is used.
func ApplyRewrite(base Payload, raw []byte) RewriteResult {
	if !gjson.ValidBytes(raw) {
		return invalid("malformed json")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return invalid("payload is not an object")
	}

	var badKey string
	doc.ForEach(func(key, _ gjson.Result) bool {
		if !allowedTopLevel[key.String()] {
			badKey = key.String()
			return false
		}
		return true
	})
	if badKey != "" {
		return invalid("unexpected field %q", badKey)
	}

	if v := doc.Get("schema_version"); v.Exists() && v.String() != base.SchemaVersion {
		return invalid("schema_version changed to %q", v.String())
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return invalid("marshal base: %v", err)
	}

	for _, section := range []struct {
		key   string
		items []PlanItem
	}{
		{"today_plan", base.TodayPlan},
		{"next_actions", base.NextActions},
	} {
		arr := doc.Get(section.key)
		if !arr.Exists() {
			continue
		}
		if !arr.IsArray() {
			return invalid("%s is not an array", section.key)
		}
		got := arr.Array()
		if len(got) != len(section.items) {
			return invalid("%s length %d, want %d", section.key, len(got), len(section.items))
		}
		for i, item := range got {
			want := section.items[i]
			if id := item.Get("task_id").String(); id != want.TaskID {
				return invalid("%s[%d] task_id %q, want %q", section.key, i, id, want.TaskID)
			}
			if r := item.Get("rank"); r.Exists() && int(r.Int()) != want.Rank {
				return invalid("%s[%d] rank changed", section.key, i)
			}
			reason := item.Get("reason")
			if !reason.Exists() || reason.Type != gjson.String || reason.String() == "" {
				continue
			}
			baseJSON, err = sjson.SetBytes(baseJSON, fmt.Sprintf("%s.%d.reason", section.key, i), reason.String())
			if err != nil {
				return invalid("merge reason: %v", err)
			}
		}
	}

	var merged Payload
	if err := json.Unmarshal(baseJSON, &merged); err != nil {
		return invalid("unmarshal merged payload: %v", err)
	}
	if err := Validate(merged); err != nil {
		return invalid("merged payload invalid: %v", err)
	}
	return RewriteResult{Valid: true, Payload: merged}
}
