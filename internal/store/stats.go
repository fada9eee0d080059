package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string      `json:"db_path"`
	DBSizeBytes   int64       `json:"db_size_bytes"`
	InboxItems    int         `json:"inbox_items"`
	Tasks         int         `json:"tasks"`
	Goals         int         `json:"goals"`
	Problems      int         `json:"problems"`
	Links         int         `json:"links"`
	Summaries     int         `json:"summaries"`
	Events        int         `json:"events"`
	TasksByStatus []StatusRow `json:"tasks_by_status"`
}

// StatusRow holds a per-status task count.
type StatusRow struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Stats returns database statistics.
func (s *Store) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inbox_items`).Scan(&st.InboxItems)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&st.Tasks)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals`).Scan(&st.Goals)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&st.Problems)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entity_links`).Scan(&st.Links)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_summaries`).Scan(&st.Summaries)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_log`).Scan(&st.Events)

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks GROUP BY status ORDER BY status`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var r StatusRow
		rows.Scan(&r.Status, &r.Count)
		st.TasksByStatus = append(st.TasksByStatus, r)
	}
	return st, nil
}
