package quota

import (
	"context"
	"fmt"

	"quickai/internal/domain"
	"quickai/internal/infra"
)

// Ledger reads the counter before admission and advances it after a
// successful generation. It never decrements and never resets on its own.
type Ledger struct {
	store  Store
	logger infra.Logger
}

func NewLedger(store Store, logger infra.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

// Load returns the caller's usage counter. For free identities a missing
// counter is initialized to 0 at the store; that is the only write Load
// performs. For premium identities the stored value (or 0) is returned
// untouched and must not be used for admission. A store failure for a premium
// identity is logged and reads as 0.
func (l *Ledger) Load(ctx context.Context, p domain.Principal) (int, error) {
	count, found, err := l.store.Load(ctx, p.Identity)
	if err != nil {
		if p.Premium {
			l.logger.Warn().Err(err).Str("user_id", string(p.Identity)).Msg("quota load failed for premium user; ignoring")
			return 0, nil
		}
		return 0, fmt.Errorf("quota: load %s: %w", p.Identity, err)
	}
	if found || p.Premium {
		return count, nil
	}
	count, err = l.store.InitializeIfAbsent(ctx, p.Identity)
	if err != nil {
		return 0, fmt.Errorf("quota: initialize %s: %w", p.Identity, err)
	}
	return count, nil
}

// Commit charges one use after a successful generation and returns the new
// counter. Premium callers are not charged; charged reports whether the store
// was written.
func (l *Ledger) Commit(ctx context.Context, p domain.Principal) (count int, charged bool, err error) {
	if p.Premium {
		return 0, false, nil
	}
	count, err = l.store.Increment(ctx, p.Identity)
	if err != nil {
		return 0, false, fmt.Errorf("quota: increment %s: %w", p.Identity, err)
	}
	return count, true, nil
}

// Reset sets the counter back to zero. Only operator tooling calls it.
func (l *Ledger) Reset(ctx context.Context, id domain.Identity) error {
	if err := l.store.Reset(ctx, id); err != nil {
		return fmt.Errorf("quota: reset %s: %w", id, err)
	}
	return nil
}
