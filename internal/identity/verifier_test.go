package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quickai/internal/domain"
)

const testSecret = "test-secret"

func TestResolveHS256(t *testing.T) {
	v := NewHS256Verifier(testSecret, "")
	token, err := Sign(testSecret, "", "user_1", false, time.Hour)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	p, err := v.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if p.Identity != "user_1" || p.Premium {
		t.Fatalf("unexpected principal %+v", p)
	}

	token, _ = Sign(testSecret, "", "user_2", true, time.Hour)
	p, err = v.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !p.Premium || p.Plan() != domain.PlanPremium {
		t.Fatalf("expected premium principal, got %+v", p)
	}
}

func TestResolveRejects(t *testing.T) {
	v := NewHS256Verifier(testSecret, "https://issuer.example")
	expired, _ := Sign(testSecret, "https://issuer.example", "user_1", false, -time.Hour)
	wrongSecret, _ := Sign("other", "https://issuer.example", "user_1", false, time.Hour)
	wrongIssuer, _ := Sign(testSecret, "https://evil.example", "user_1", false, time.Hour)
	noSubject, _ := Sign(testSecret, "https://issuer.example", "", false, time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1", "iss": "https://issuer.example",
	}).SignedString([]byte(testSecret))
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user_1", "iss": "https://issuer.example", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expired},
		{"wrong secret", wrongSecret},
		{"wrong issuer", wrongIssuer},
		{"missing subject", noSubject},
		{"missing expiry", noExpiry},
		{"alg none", unsigned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Resolve(context.Background(), tc.token)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("Resolve error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestClaimsPremium(t *testing.T) {
	tests := []struct {
		claims Claims
		want   bool
	}{
		{Claims{Pla: "u:premium"}, true},
		{Claims{Pla: "premium"}, true},
		{Claims{Pla: "U:PREMIUM"}, true},
		{Claims{Plan: "premium"}, true},
		{Claims{Pla: "u:free"}, false},
		{Claims{Plan: "free"}, false},
		{Claims{}, false},
	}
	for _, tc := range tests {
		if got := tc.claims.Premium(); got != tc.want {
			t.Fatalf("Premium(%+v) = %v, want %v", tc.claims, got, tc.want)
		}
	}
}

func TestResolveJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_ = json.NewEncoder(w).Encode(jwkSet{Keys: []jwk{{
			Kid: "k1",
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	sign := func(kid string, method jwt.SigningMethod, signKey any) string {
		tok := jwt.NewWithClaims(method, jwt.MapClaims{
			"sub": "user_rs",
			"pla": "u:premium",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		tok.Header["kid"] = kid
		s, err := tok.SignedString(signKey)
		if err != nil {
			t.Fatalf("SignedString: %v", err)
		}
		return s
	}

	clock := time.Now()
	v := NewJWKSVerifier(srv.URL, "", srv.Client())
	v.keys.now = func() time.Time { return clock }
	p, err := v.Resolve(context.Background(), sign("k1", jwt.SigningMethodRS256, key))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if p.Identity != "user_rs" || !p.Premium {
		t.Fatalf("unexpected principal %+v", p)
	}
	if _, err := v.Resolve(context.Background(), sign("k1", jwt.SigningMethodRS256, key)); err != nil {
		t.Fatalf("second Resolve error: %v", err)
	}
	if got := fetches.Load(); got != 1 {
		t.Fatalf("jwks fetched %d times, want 1", got)
	}

	if _, err := v.Resolve(context.Background(), sign("k2", jwt.SigningMethodRS256, key)); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("unknown kid error = %v", err)
	}
	if got := fetches.Load(); got != 1 {
		t.Fatalf("unknown kid right after a fetch must not refetch, fetched %d times", got)
	}

	clock = clock.Add(minRefetch)
	for i := 0; i < 5; i++ {
		if _, err := v.Resolve(context.Background(), sign("k3", jwt.SigningMethodRS256, key)); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("unknown kid error = %v", err)
		}
	}
	if got := fetches.Load(); got != 2 {
		t.Fatalf("unknown kids within one interval fetched %d times, want 2", got)
	}

	if _, err := v.Resolve(context.Background(), sign("k1", jwt.SigningMethodHS256, []byte("k"))); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("HS256 token accepted by JWKS verifier: %v", err)
	}
}

func TestRSAKeyFromJWKRejectsZeroExponent(t *testing.T) {
	if _, err := rsaKeyFromJWK(jwk{N: "AQAB", E: ""}); err == nil {
		t.Fatalf("expected error for empty exponent")
	}
}
