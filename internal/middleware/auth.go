package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"quickai/internal/domain"
)

const unauthenticatedMessage = "Authentication failed - no user ID found"

// PrincipalResolver verifies a bearer credential.
type PrincipalResolver interface {
	Resolve(ctx context.Context, credential string) (domain.Principal, error)
}

type principalKey struct{}

// Authenticate resolves the bearer token on every request and stores the
// Principal in the request context. Failures end the request with 401.
func Authenticate(resolver PrincipalResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeFailure(w, http.StatusUnauthorized, unauthenticatedMessage)
				return
			}
			principal, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.Debug().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("authentication rejected")
				writeFailure(w, http.StatusUnauthorized, unauthenticatedMessage)
				return
			}
			markUser(r.Context(), principal.Identity)
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	if strings.TrimSpace(string(p.Identity)) == "" {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}
