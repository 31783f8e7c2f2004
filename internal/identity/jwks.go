package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

const (
	keyCacheTTL = time.Hour
	// minRefetch bounds how often an unknown kid may trigger a fetch.
	minRefetch = time.Minute
)

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// keySet caches the RSA keys published at a JWKS URL.
type keySet struct {
	url        string
	httpClient *http.Client

	now func() time.Time

	mu        sync.RWMutex
	cache     map[string]*rsa.PublicKey
	fetched   time.Time
	attempted time.Time
}

func newKeySet(url string, client *http.Client) *keySet {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &keySet{url: url, httpClient: client, now: time.Now, cache: make(map[string]*rsa.PublicKey)}
}

// key returns the key for kid. A stale cache is refetched; an unknown kid
// triggers at most one fetch per minRefetch.
func (k *keySet) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if err := k.ensure(ctx); err != nil {
		return nil, err
	}
	if pub, ok := k.lookup(kid); ok {
		return pub, nil
	}
	if !k.mayRefetch() {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	if err := k.refresh(ctx); err != nil {
		return nil, err
	}
	if pub, ok := k.lookup(kid); ok {
		return pub, nil
	}
	return nil, fmt.Errorf("unknown kid %q", kid)
}

func (k *keySet) ensure(ctx context.Context) error {
	k.mu.RLock()
	fresh := k.now().Sub(k.fetched) < keyCacheTTL && len(k.cache) > 0
	k.mu.RUnlock()
	if fresh {
		return nil
	}
	return k.refresh(ctx)
}

// mayRefetch reserves the next unknown-kid fetch slot.
func (k *keySet) mayRefetch() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	if now.Sub(k.attempted) < minRefetch {
		return false
	}
	k.attempted = now
	return true
}

func (k *keySet) refresh(ctx context.Context) error {
	k.mu.Lock()
	k.attempted = k.now()
	k.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return err
	}
	resp, err := k.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks fetch: status %d", resp.StatusCode)
	}
	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return err
	}
	keys := make(map[string]*rsa.PublicKey)
	for _, key := range set.Keys {
		if key.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(key)
		if err != nil {
			continue
		}
		keys[key.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("jwks: no RSA keys")
	}
	k.mu.Lock()
	k.cache = keys
	k.fetched = k.now()
	k.mu.Unlock()
	return nil
}

func (k *keySet) lookup(kid string) (*rsa.PublicKey, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pub, ok := k.cache[kid]
	return pub, ok
}

func rsaKeyFromJWK(j jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eBytes {
		e = e<<8 + int(b)
	}
	if e == 0 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}
