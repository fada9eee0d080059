package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jsandoval/daybrief/internal/model"
)

// CaptureParams holds parameters for storing an inbox item.
type CaptureParams struct {
	UserID      string
	ChatID      string
	SessionID   string
	Source      string
	ClientMsgID string
	Message     string
}

// Capture stores a raw message as an InboxItem. Duplicate (source,
// client_msg_id) pairs return the already-stored item instead of a new row.
func (s *Store) Capture(ctx context.Context, p CaptureParams) (*model.InboxItem, error) {
	if p.Message == "" {
		return nil, fmt.Errorf("empty message")
	}
	source := p.Source
	if source == "" {
		source = "cli"
	}

	if p.ClientMsgID != "" {
		var existing model.InboxItem
		var receivedAt string
		err := s.db.QueryRowContext(ctx,
			`SELECT id, user_id, chat_id, message_raw, message_norm, received_at
			 FROM inbox_items WHERE source = ? AND client_msg_id = ?`,
			source, p.ClientMsgID).Scan(&existing.ID, &existing.UserID, &existing.ChatID,
			&existing.MessageRaw, &existing.MessageNorm, &receivedAt)
		if err == nil {
			existing.Source = source
			existing.ClientMsgID = p.ClientMsgID
			existing.ReceivedAt = parseTime(receivedAt)
			return &existing, nil
		}
	}

	item := &model.InboxItem{
		ID:          s.newID("inb"),
		UserID:      p.UserID,
		ChatID:      p.ChatID,
		SessionID:   p.SessionID,
		Source:      source,
		ClientMsgID: p.ClientMsgID,
		MessageRaw:  p.Message,
		MessageNorm: model.Normalize(p.Message),
		ReceivedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inbox_items (id, user_id, chat_id, session_id, source, client_msg_id, message_raw, message_norm, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.ChatID, nullStr(item.SessionID), item.Source,
		nullStr(item.ClientMsgID), item.MessageRaw, item.MessageNorm, fmtTime(item.ReceivedAt))
	if err != nil {
		return nil, fmt.Errorf("insert inbox item: %w", err)
	}

	s.appendEvent(ctx, item.UserID, "inbox_item_captured", "inbox_item", item.ID)
	return item, nil
}

// RecentTurns returns the most recent inbox items for (user, chat) rendered
// as "source: message" lines, oldest-first within the selected window.
func (s *Store) RecentTurns(ctx context.Context, userID, chatID string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, message_norm FROM inbox_items
		 WHERE user_id = ? AND chat_id = ?
		 ORDER BY received_at DESC, id DESC LIMIT ?`, userID, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var newestFirst []string
	for rows.Next() {
		var source, msg string
		if err := rows.Scan(&source, &msg); err != nil {
			return nil, err
		}
		newestFirst = append(newestFirst, source+": "+msg)
	}

	// Render oldest-first so trimming drops the oldest turns.
	out := make([]string, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		out = append(out, newestFirst[i])
	}
	return out, nil
}

// Compact deletes inbox items older than the retention window that no task
// references as its source. Returns the number of rows deleted.
func (s *Store) Compact(ctx context.Context, retentionDays int, now time.Time) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := fmtTime(now.AddDate(0, 0, -retentionDays))
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM inbox_items
		 WHERE received_at < ?
		   AND id NOT IN (SELECT source_inbox_item_id FROM tasks WHERE source_inbox_item_id IS NOT NULL)`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("compact inbox: %w", err)
	}
	return res.RowsAffected()
}
