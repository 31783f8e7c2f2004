// Package admission decides whether a principal may run a capability given
// its current usage counter. It performs no I/O.
package admission

import "quickai/internal/domain"

// Reason explains a denial.
type Reason int

const (
	NoReason Reason = iota
	QuotaExhausted
	PlanRequired
)

func (r Reason) String() string {
	switch r {
	case QuotaExhausted:
		return "quota_exhausted"
	case PlanRequired:
		return "plan_required"
	default:
		return "none"
	}
}

// Err maps the reason onto the domain sentinel, nil for NoReason.
func (r Reason) Err() error {
	switch r {
	case QuotaExhausted:
		return domain.ErrQuotaExhausted
	case PlanRequired:
		return domain.ErrPlanRequired
	default:
		return nil
	}
}

// Decision is the gate's verdict for one request.
type Decision struct {
	Allow  bool
	Reason Reason
}

// Admit applies the capability's policy. The plan check runs before the
// quota check, and the counter is ignored for premium principals.
func Admit(p domain.Principal, counter int, c domain.Capability) Decision {
	policy := c.Policy()
	if policy.PremiumOnly && !p.Premium {
		return Decision{Reason: PlanRequired}
	}
	if !p.Premium && policy.QuotaLimited && counter >= domain.FreeUsageCeiling {
		return Decision{Reason: QuotaExhausted}
	}
	return Decision{Allow: true, Reason: NoReason}
}
