package quota

import (
	"context"

	"quickai/internal/domain"
	"quickai/internal/infra"
	"quickai/internal/sqlinline"
)

// PostgresStore keeps free_usage inside users.properties.
type PostgresStore struct {
	sql infra.SQLExecutor
}

func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

func (s *PostgresStore) Load(ctx context.Context, id domain.Identity) (int, bool, error) {
	var count *int32
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectFreeUsage, string(id)).Scan(&count); err != nil {
		if infra.IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if count == nil {
		return 0, false, nil
	}
	return int(*count), true, nil
}

// InitializeIfAbsent upserts a zero counter. If the upsert yields no row the
// counter is re-read; an absent counter then reads as 0.
func (s *PostgresStore) InitializeIfAbsent(ctx context.Context, id domain.Identity) (int, error) {
	var count int32
	err := s.sql.QueryRow(ctx, sqlinline.QInitFreeUsage, string(id)).Scan(&count)
	if err == nil {
		return int(count), nil
	}
	if !infra.IsNoRows(err) {
		return 0, err
	}
	stored, _, err := s.Load(ctx, id)
	if err != nil {
		return 0, err
	}
	return stored, nil
}

func (s *PostgresStore) Increment(ctx context.Context, id domain.Identity) (int, error) {
	var count int32
	if err := s.sql.QueryRow(ctx, sqlinline.QIncrementFreeUsage, string(id)).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *PostgresStore) Reset(ctx context.Context, id domain.Identity) error {
	_, err := s.sql.Exec(ctx, sqlinline.QResetFreeUsage, string(id))
	return err
}

var _ Store = (*PostgresStore)(nil)
