package admission

import (
	"errors"
	"testing"

	"quickai/internal/domain"
)

func TestAdmit(t *testing.T) {
	free := domain.Principal{Identity: "free"}
	premium := domain.Principal{Identity: "pro", Premium: true}

	tests := []struct {
		name       string
		principal  domain.Principal
		counter    int
		capability domain.Capability
		want       Decision
	}{
		{"free article under ceiling", free, 3, domain.CapabilityArticle, Decision{Allow: true}},
		{"free article at nine", free, 9, domain.CapabilityArticle, Decision{Allow: true}},
		{"free article at ceiling", free, 10, domain.CapabilityArticle, Decision{Reason: QuotaExhausted}},
		{"free blog title over ceiling", free, 42, domain.CapabilityBlogTitle, Decision{Reason: QuotaExhausted}},
		{"free image", free, 0, domain.CapabilityImage, Decision{Reason: PlanRequired}},
		{"free background removal", free, 0, domain.CapabilityBackgroundRemoval, Decision{Reason: PlanRequired}},
		{"free object removal", free, 0, domain.CapabilityObjectRemoval, Decision{Reason: PlanRequired}},
		{"free resume review past ceiling", free, 15, domain.CapabilityResumeReview, Decision{Reason: PlanRequired}},
		{"premium article with huge counter", premium, 1000, domain.CapabilityArticle, Decision{Allow: true}},
		{"premium image", premium, 0, domain.CapabilityImage, Decision{Allow: true}},
		{"premium resume review", premium, 55, domain.CapabilityResumeReview, Decision{Allow: true}},
		{"unknown capability", free, 0, domain.Capability("video"), Decision{Reason: PlanRequired}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Admit(tc.principal, tc.counter, tc.capability)
			if got != tc.want {
				t.Fatalf("Admit() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestAdmitPremiumIgnoresCounter(t *testing.T) {
	premium := domain.Principal{Identity: "pro", Premium: true}
	all := []domain.Capability{
		domain.CapabilityArticle,
		domain.CapabilityBlogTitle,
		domain.CapabilityImage,
		domain.CapabilityBackgroundRemoval,
		domain.CapabilityObjectRemoval,
		domain.CapabilityResumeReview,
	}
	for _, c := range all {
		for _, counter := range []int{0, 9, 10, 11, 1 << 20} {
			if d := Admit(premium, counter, c); !d.Allow {
				t.Fatalf("premium denied for %s at counter %d: %+v", c, counter, d)
			}
		}
	}
}

func TestReasonErr(t *testing.T) {
	if !errors.Is(QuotaExhausted.Err(), domain.ErrQuotaExhausted) {
		t.Fatalf("QuotaExhausted.Err() = %v", QuotaExhausted.Err())
	}
	if !errors.Is(PlanRequired.Err(), domain.ErrPlanRequired) {
		t.Fatalf("PlanRequired.Err() = %v", PlanRequired.Err())
	}
	if NoReason.Err() != nil {
		t.Fatalf("NoReason.Err() = %v, want nil", NoReason.Err())
	}
}
