// Package model defines the core assistant entity types.
package model

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskOpen     TaskStatus = "open"
	TaskBlocked  TaskStatus = "blocked"
	TaskDone     TaskStatus = "done"
	TaskArchived TaskStatus = "archived"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalPaused   GoalStatus = "paused"
	GoalDone     GoalStatus = "done"
	GoalArchived GoalStatus = "archived"
)

// ProblemStatus is the lifecycle state of a problem.
type ProblemStatus string

const (
	ProblemActive     ProblemStatus = "active"
	ProblemMonitoring ProblemStatus = "monitoring"
	ProblemResolved   ProblemStatus = "resolved"
	ProblemArchived   ProblemStatus = "archived"
)

// EntityType identifies which table a link endpoint refers to.
type EntityType string

const (
	EntityTask    EntityType = "task"
	EntityGoal    EntityType = "goal"
	EntityProblem EntityType = "problem"
)

// LinkType is the relation carried by an EntityLink.
type LinkType string

const (
	LinkDependsOn        LinkType = "depends_on"
	LinkBlocks           LinkType = "blocks"
	LinkSupportsGoal     LinkType = "supports_goal"
	LinkRelated          LinkType = "related"
	LinkAddressesProblem LinkType = "addresses_problem"
)

// ValidTaskStatuses are the allowed task states.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskOpen: true, TaskBlocked: true, TaskDone: true, TaskArchived: true,
}

// ValidLinkTypes are the allowed link relations.
var ValidLinkTypes = map[LinkType]bool{
	LinkDependsOn: true, LinkBlocks: true, LinkSupportsGoal: true,
	LinkRelated: true, LinkAddressesProblem: true,
}

// InboxItem is a single captured message. Immutable after creation except
// for retention deletion.
type InboxItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ChatID      string    `json:"chat_id"`
	SessionID   string    `json:"session_id,omitempty"`
	Source      string    `json:"source"`
	ClientMsgID string    `json:"client_msg_id,omitempty"`
	MessageRaw  string    `json:"message_raw"`
	MessageNorm string    `json:"message_norm"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Task is a unit of open work, eligible for planning while status is open.
type Task struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	TitleNorm         string     `json:"title_norm"`
	Notes             string     `json:"notes,omitempty"`
	Status            TaskStatus `json:"status"`
	Priority          int        `json:"priority,omitempty"`         // 1..4, 1 = highest, 0 = unset
	ImpactScore       int        `json:"impact_score,omitempty"`     // 1..5, 0 = unset
	EstimatedMinutes  int        `json:"estimated_minutes,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	SourceInboxItemID string     `json:"source_inbox_item_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// Goal is a longer-horizon objective tasks can support.
type Goal struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	TitleNorm  string     `json:"title_norm"`
	Status     GoalStatus `json:"status"`
	Horizon    string     `json:"horizon,omitempty"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Problem is a tracked ongoing issue.
type Problem struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	TitleNorm string        `json:"title_norm"`
	Status    ProblemStatus `json:"status"`
	Severity  int           `json:"severity,omitempty"` // 1..5, 0 = unset
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// EntityLink is a typed directed edge between two entities.
type EntityLink struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	FromType  EntityType `json:"from_type"`
	FromID    string     `json:"from_id"`
	ToType    EntityType `json:"to_type"`
	ToID      string     `json:"to_id"`
	LinkType  LinkType   `json:"link_type"`
	CreatedAt time.Time  `json:"created_at"`
}

// MemorySummary is a compact digest of a session/day/week with provenance
// back to the inbox items it was computed from.
type MemorySummary struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ChatID      string    `json:"chat_id"`
	SummaryType string    `json:"summary_type"` // session | daily | weekly
	SummaryText string    `json:"summary_text"`
	FactsJSON   string    `json:"facts_json,omitempty"`
	SourceIDs   []string  `json:"source_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event is an append-only audit record for entity mutations.
type Event struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	UserID     string    `json:"user_id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
