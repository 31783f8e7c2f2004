package domain

// Identity is the identity provider's stable user key.
type Identity string

// PlanTier enumerates entitlement levels.
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPremium PlanTier = "premium"
)

// FreeUsageCeiling is the number of quota-limited generations a free user may
// run before being denied.
const FreeUsageCeiling = 10

// Principal is the resolved caller of one request. It is never cached beyond
// the request that produced it.
type Principal struct {
	Identity Identity
	Premium  bool
}

// Plan reports the caller's tier.
func (p Principal) Plan() PlanTier {
	if p.Premium {
		return PlanPremium
	}
	return PlanFree
}
