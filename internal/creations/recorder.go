package creations

import (
	"context"

	"quickai/internal/domain"
)

// Recorder appends creations after successful generations. Any write failure
// comes back as *domain.PersistenceError.
type Recorder struct {
	repo domain.CreationRepository
}

func NewRecorder(repo domain.CreationRepository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Record(ctx context.Context, c domain.NewCreation) (*domain.Creation, error) {
	created, err := r.repo.Create(ctx, c)
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}
	return created, nil
}
