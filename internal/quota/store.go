// Package quota tracks the free-tier usage counter kept in the identity
// provider's metadata slot and decides when it is read, initialized and
// advanced.
package quota

import (
	"context"

	"quickai/internal/domain"
)

// Store is the external keyed store holding one usage counter per free
// identity. InitializeIfAbsent must be idempotent: concurrent callers for the
// same identity may both reach it, and neither may overwrite a value the
// other stored.
type Store interface {
	Load(ctx context.Context, id domain.Identity) (count int, found bool, err error)
	InitializeIfAbsent(ctx context.Context, id domain.Identity) (int, error)
	Increment(ctx context.Context, id domain.Identity) (int, error)
	Reset(ctx context.Context, id domain.Identity) error
}
