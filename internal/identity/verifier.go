package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quickai/internal/domain"
)

// Verifier validates session tokens. The zero value is unusable; build one
// with NewHS256Verifier or NewJWKSVerifier.
type Verifier struct {
	secret []byte
	keys   *keySet
	issuer string
}

// NewHS256Verifier checks tokens signed with a shared secret.
func NewHS256Verifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// NewJWKSVerifier checks RS256 tokens against the keys published at jwksURL.
func NewJWKSVerifier(jwksURL, issuer string, client *http.Client) *Verifier {
	return &Verifier{keys: newKeySet(jwksURL, client), issuer: issuer}
}

// Resolve verifies the credential and derives the caller's plan from its
// claims. Any verification failure is reported as domain.ErrUnauthenticated.
func (v *Verifier) Resolve(ctx context.Context, credential string) (domain.Principal, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, v.keyfunc(ctx), v.parserOptions()...)
	if err != nil || !token.Valid {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return domain.Principal{}, fmt.Errorf("%w: missing subject", domain.ErrUnauthenticated)
	}
	return domain.Principal{Identity: domain.Identity(sub), Premium: claims.Premium()}, nil
}

func (v *Verifier) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired(), jwt.WithLeeway(30 * time.Second)}
	if v.keys != nil {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	return opts
}

func (v *Verifier) keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if v.keys == nil {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			if len(v.secret) == 0 {
				return nil, errors.New("no signing secret configured")
			}
			return v.secret, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		return v.keys.key(ctx, kid)
	}
}

// Sign mints an HS256 session token. It backs local tooling and tests.
func Sign(secret, issuer string, sub domain.Identity, premium bool, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is empty")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(sub),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if premium {
		claims.Pla = planPremiumScoped
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
