// Package store provides the SQLite-backed entity store: inbox items,
// tasks, goals, problems, typed links, memory summaries, the event log,
// and the plan cache. The pure core packages (memory, planner) never touch
// this package; the store loads snapshots for them.
package store

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database.
type Store struct {
	db      *sql.DB
	entropy *rand.Rand
}

// New opens or creates a SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) newID(prefix string) string {
	return prefix + "_" + ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inbox_items (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		chat_id       TEXT NOT NULL,
		session_id    TEXT,
		source        TEXT NOT NULL,
		client_msg_id TEXT,
		message_raw   TEXT NOT NULL,
		message_norm  TEXT NOT NULL,
		received_at   TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS uq_inbox_source_client
		ON inbox_items(source, client_msg_id) WHERE client_msg_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_inbox_user_received
		ON inbox_items(user_id, chat_id, received_at DESC);

	CREATE TABLE IF NOT EXISTS tasks (
		id                   TEXT PRIMARY KEY,
		user_id              TEXT NOT NULL,
		title                TEXT NOT NULL,
		title_norm           TEXT NOT NULL,
		notes                TEXT,
		status               TEXT NOT NULL DEFAULT 'open',
		priority             INTEGER,
		impact_score         INTEGER,
		estimated_minutes    INTEGER,
		due_date             TEXT,
		source_inbox_item_id TEXT REFERENCES inbox_items(id),
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL,
		completed_at         TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_user_status_due ON tasks(user_id, status, due_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_user_updated ON tasks(user_id, updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_tasks_user_title_norm ON tasks(user_id, title_norm);

	CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		title       TEXT NOT NULL,
		title_norm  TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active',
		horizon     TEXT,
		target_date TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_user_status ON goals(user_id, status);

	CREATE TABLE IF NOT EXISTS problems (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		title_norm TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'active',
		severity   INTEGER,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_problems_user_status ON problems(user_id, status);

	CREATE TABLE IF NOT EXISTS entity_links (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		from_type  TEXT NOT NULL,
		from_id    TEXT NOT NULL,
		to_type    TEXT NOT NULL,
		to_id      TEXT NOT NULL,
		link_type  TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (user_id, from_type, from_id, to_type, to_id, link_type)
	);
	CREATE INDEX IF NOT EXISTS idx_links_to ON entity_links(user_id, to_type, to_id);

	CREATE TABLE IF NOT EXISTS memory_summaries (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		chat_id      TEXT NOT NULL,
		summary_type TEXT NOT NULL,
		summary_text TEXT NOT NULL,
		facts_json   TEXT NOT NULL DEFAULT '{}',
		source_ids   TEXT NOT NULL DEFAULT '[]',
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_summaries_user_chat_created
		ON memory_summaries(user_id, chat_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS event_log (
		id          TEXT PRIMARY KEY,
		request_id  TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		event_type  TEXT NOT NULL,
		entity_type TEXT,
		entity_id   TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_event_log_user_created ON event_log(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS plan_cache (
		user_id      TEXT NOT NULL,
		plan_window  TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, plan_window)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// timeFormat is fixed-width RFC3339 with nanoseconds, so stored timestamps
// sort correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func nullTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := fmtTime(*t)
	return &v
}
