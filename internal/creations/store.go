// Package creations persists the creation log and the community like set.
package creations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quickai/internal/domain"
	"quickai/internal/infra"
	"quickai/internal/sqlinline"
)

// Store is the Postgres-backed domain.CreationRepository.
type Store struct {
	sql   infra.SQLExecutor
	newID func() uuid.UUID
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql, newID: uuid.New}
}

func (s *Store) Create(ctx context.Context, c domain.NewCreation) (*domain.Creation, error) {
	if strings.TrimSpace(string(c.UserID)) == "" {
		return nil, fmt.Errorf("creations: user id is required")
	}
	if c.Type == "" {
		return nil, fmt.Errorf("creations: type is required")
	}
	row := s.sql.QueryRow(ctx, sqlinline.QInsertCreation,
		s.newID(), string(c.UserID), c.Prompt, c.Content, string(c.Type), c.Publish)
	created, err := scanCreation(row)
	if err != nil {
		return nil, fmt.Errorf("creations: insert: %w", err)
	}
	return created, nil
}

func (s *Store) ListByUser(ctx context.Context, userID domain.Identity) ([]domain.Creation, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListUserCreations, string(userID))
	if err != nil {
		return nil, fmt.Errorf("creations: list by user: %w", err)
	}
	return collect(rows)
}

func (s *Store) ListPublished(ctx context.Context) ([]domain.Creation, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListPublishedCreations)
	if err != nil {
		return nil, fmt.Errorf("creations: list published: %w", err)
	}
	return collect(rows)
}

// ToggleLike flips userID's membership in the like set. Unknown or
// malformed ids report domain.ErrNotFound.
func (s *Store) ToggleLike(ctx context.Context, creationID string, userID domain.Identity) (bool, error) {
	id, err := uuid.Parse(strings.TrimSpace(creationID))
	if err != nil {
		return false, domain.ErrNotFound
	}
	var liked bool
	if err := s.sql.QueryRow(ctx, sqlinline.QToggleLikeCreation, id, string(userID)).Scan(&liked); err != nil {
		if infra.IsNoRows(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("creations: toggle like: %w", err)
	}
	return liked, nil
}

func scanCreation(row pgx.Row) (*domain.Creation, error) {
	var (
		c       domain.Creation
		userID  string
		kind    string
		likes   []string
		created time.Time
	)
	if err := row.Scan(&c.ID, &userID, &c.Prompt, &c.Content, &kind, &c.Publish, &likes, &created); err != nil {
		return nil, err
	}
	c.UserID = domain.Identity(userID)
	c.Type = domain.CreationType(kind)
	c.CreatedAt = created
	if likes == nil {
		likes = []string{}
	}
	c.Likes = likes
	return &c, nil
}

func collect(rows pgx.Rows) ([]domain.Creation, error) {
	defer rows.Close()
	out := make([]domain.Creation, 0)
	for rows.Next() {
		c, err := scanCreation(rows)
		if err != nil {
			return nil, fmt.Errorf("creations: scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("creations: rows: %w", err)
	}
	return out, nil
}

var _ domain.CreationRepository = (*Store)(nil)
