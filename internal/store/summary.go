package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsandoval/daybrief/internal/model"
)

// SummaryParams holds parameters for recording a memory summary.
type SummaryParams struct {
	UserID      string
	ChatID      string
	SummaryType string // session | daily | weekly
	SummaryText string
	FactsJSON   string
	SourceIDs   []string // provenance: inbox item ids the summary covers
}

var validSummaryTypes = map[string]bool{"session": true, "daily": true, "weekly": true}

// PutSummary records a summary produced by the external summarization job.
func (s *Store) PutSummary(ctx context.Context, p SummaryParams) (*model.MemorySummary, error) {
	if p.SummaryText == "" {
		return nil, fmt.Errorf("empty summary text")
	}
	if !validSummaryTypes[p.SummaryType] {
		return nil, fmt.Errorf("invalid summary type %q (valid: session, daily, weekly)", p.SummaryType)
	}
	facts := p.FactsJSON
	if facts == "" {
		facts = "{}"
	}
	sourceIDs, _ := json.Marshal(p.SourceIDs)
	if p.SourceIDs == nil {
		sourceIDs = []byte("[]")
	}

	ms := &model.MemorySummary{
		ID:          s.newID("sum"),
		UserID:      p.UserID,
		ChatID:      p.ChatID,
		SummaryType: p.SummaryType,
		SummaryText: p.SummaryText,
		FactsJSON:   facts,
		SourceIDs:   p.SourceIDs,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memory_summaries (id, user_id, chat_id, summary_type, summary_text, facts_json, source_ids, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ms.ID, ms.UserID, ms.ChatID, ms.SummaryType, ms.SummaryText, ms.FactsJSON,
		string(sourceIDs), fmtTime(ms.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert summary: %w", err)
	}
	s.appendEvent(ctx, ms.UserID, "memory_summary_created", "memory_summary", ms.ID)
	return ms, nil
}

// LatestSummary returns the most recent summary for (user, chat), or nil.
func (s *Store) LatestSummary(ctx context.Context, userID, chatID string) (*model.MemorySummary, error) {
	var ms model.MemorySummary
	var sourceIDs, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, chat_id, summary_type, summary_text, facts_json, source_ids, created_at
		 FROM memory_summaries WHERE user_id = ? AND chat_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, userID, chatID).
		Scan(&ms.ID, &ms.UserID, &ms.ChatID, &ms.SummaryType, &ms.SummaryText,
			&ms.FactsJSON, &sourceIDs, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(sourceIDs), &ms.SourceIDs)
	ms.CreatedAt = parseTime(createdAt)
	return &ms, nil
}
