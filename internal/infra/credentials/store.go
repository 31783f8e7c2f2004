package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quickai/internal/infra"
	"quickai/internal/sqlinline"
)

// Provider names used as integration_tokens keys.
const (
	ProviderTextGen    = "textgen"
	ProviderClipdrop   = "clipdrop"
	ProviderCloudinary = "cloudinary"
)

// Providers lists every provider whose key may live in the store.
func Providers() []string {
	return []string{ProviderTextGen, ProviderClipdrop, ProviderCloudinary}
}

// Store reads and writes upstream API keys kept in integration_tokens. It is
// the fallback when a key is not present in the environment.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("credentials: load %s: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// Resolve prefers the configured value and falls back to the store.
func (s *Store) Resolve(ctx context.Context, provider, configured string) (string, error) {
	if v := strings.TrimSpace(configured); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Token(ctx, provider)
}

// SetToken upserts the key for provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("credentials: token is required")
	}
	if !knownProvider(provider) {
		return fmt.Errorf("credentials: unsupported provider %q", provider)
	}
	raw, err := json.Marshal(map[string]any{"source": "cli"})
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}

func knownProvider(provider string) bool {
	for _, p := range Providers() {
		if p == provider {
			return true
		}
	}
	return false
}
