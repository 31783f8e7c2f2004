package domain

import "context"

// CreationRepository is the append-only creation log plus the community like
// set.
type CreationRepository interface {
	Create(ctx context.Context, c NewCreation) (*Creation, error)
	ListByUser(ctx context.Context, userID Identity) ([]Creation, error)
	ListPublished(ctx context.Context) ([]Creation, error)
	ToggleLike(ctx context.Context, creationID string, userID Identity) (liked bool, err error)
}
