// Package identity turns a bearer credential into a request-scoped Principal.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	planPremium       = "premium"
	planPremiumScoped = "u:premium"
)

// Claims is the session token payload. Pla is the identity provider's compact
// plan entitlement; Plan is accepted for tokens minted locally.
type Claims struct {
	Pla  string `json:"pla,omitempty"`
	Plan string `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

// Premium reports whether the token entitles its subject to the premium plan.
func (c *Claims) Premium() bool {
	switch strings.ToLower(strings.TrimSpace(c.Pla)) {
	case planPremium, planPremiumScoped:
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.Plan), planPremium)
}
