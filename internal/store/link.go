package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jsandoval/daybrief/internal/model"
)

// LinkParams holds parameters for creating or removing an entity link.
type LinkParams struct {
	UserID   string
	FromType model.EntityType
	FromID   string
	ToType   model.EntityType
	ToID     string
	LinkType model.LinkType
	Remove   bool
}

var validEntityTypes = map[model.EntityType]bool{
	model.EntityTask: true, model.EntityGoal: true, model.EntityProblem: true,
}

// Link creates or removes a typed directed edge between two entities.
func (s *Store) Link(ctx context.Context, p LinkParams) (*model.EntityLink, error) {
	if !model.ValidLinkTypes[p.LinkType] {
		return nil, fmt.Errorf("invalid link type %q (valid: depends_on, blocks, supports_goal, related, addresses_problem)", p.LinkType)
	}
	if !validEntityTypes[p.FromType] || !validEntityTypes[p.ToType] {
		return nil, fmt.Errorf("invalid entity type %q -> %q", p.FromType, p.ToType)
	}
	if p.FromID == "" || p.ToID == "" {
		return nil, fmt.Errorf("missing entity id")
	}

	if p.Remove {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM entity_links
			 WHERE user_id = ? AND from_type = ? AND from_id = ? AND to_type = ? AND to_id = ? AND link_type = ?`,
			p.UserID, p.FromType, p.FromID, p.ToType, p.ToID, p.LinkType)
		if err != nil {
			return nil, err
		}
		return &model.EntityLink{UserID: p.UserID, FromType: p.FromType, FromID: p.FromID,
			ToType: p.ToType, ToID: p.ToID, LinkType: p.LinkType}, nil
	}

	l := &model.EntityLink{
		ID:        s.newID("link"),
		UserID:    p.UserID,
		FromType:  p.FromType,
		FromID:    p.FromID,
		ToType:    p.ToType,
		ToID:      p.ToID,
		LinkType:  p.LinkType,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO entity_links (id, user_id, from_type, from_id, to_type, to_id, link_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.FromType, l.FromID, l.ToType, l.ToID, l.LinkType, fmtTime(l.CreatedAt))
	if err != nil {
		return nil, err
	}
	s.appendEvent(ctx, l.UserID, "link_created", "entity_link", l.ID)
	return l, nil
}

// ListLinks returns all entity links for a user in stable creation order.
// Rows with missing required fields are skipped rather than failing the
// whole read.
func (s *Store) ListLinks(ctx context.Context, userID string) ([]model.EntityLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, from_type, from_id, to_type, to_id, link_type, created_at
		 FROM entity_links WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.EntityLink
	for rows.Next() {
		var l model.EntityLink
		var fromID, toID, linkType sql.NullString
		var createdAt string
		if err := rows.Scan(&l.ID, &l.UserID, &l.FromType, &fromID, &l.ToType, &toID, &linkType, &createdAt); err != nil {
			return nil, err
		}
		if !fromID.Valid || !toID.Valid || !linkType.Valid || fromID.String == "" || toID.String == "" {
			continue
		}
		l.FromID = fromID.String
		l.ToID = toID.String
		l.LinkType = model.LinkType(linkType.String)
		l.CreatedAt = parseTime(createdAt)
		links = append(links, l)
	}
	return links, rows.Err()
}
