package domain

// Capability enumerates the AI-backed operations a caller can request.
type Capability string

const (
	CapabilityArticle           Capability = "article"
	CapabilityBlogTitle         Capability = "blog-title"
	CapabilityImage             Capability = "image"
	CapabilityBackgroundRemoval Capability = "background-removal"
	CapabilityObjectRemoval     Capability = "object-removal"
	CapabilityResumeReview      Capability = "resume-review"
)

// Policy holds the admission flags of a capability.
type Policy struct {
	PremiumOnly  bool
	QuotaLimited bool
}

type capabilitySpec struct {
	policy       Policy
	creationType CreationType
	failure      string
}

var capabilities = map[Capability]capabilitySpec{
	CapabilityArticle: {
		policy:       Policy{QuotaLimited: true},
		creationType: CreationArticle,
		failure:      "Failed to generate article. Please try again.",
	},
	CapabilityBlogTitle: {
		policy:       Policy{QuotaLimited: true},
		creationType: CreationBlogTitle,
		failure:      "Failed to generate title. Please try again.",
	},
	CapabilityImage: {
		policy:       Policy{PremiumOnly: true},
		creationType: CreationImage,
		failure:      "Failed to generate image. Please try again.",
	},
	CapabilityBackgroundRemoval: {
		policy:       Policy{PremiumOnly: true},
		creationType: CreationImage,
		failure:      "Failed to remove background. Please try again.",
	},
	CapabilityObjectRemoval: {
		policy:       Policy{PremiumOnly: true},
		creationType: CreationImage,
		failure:      "Failed to remove object. Please try again.",
	},
	CapabilityResumeReview: {
		policy:       Policy{PremiumOnly: true},
		creationType: CreationResumeReview,
		failure:      "Failed to review resume. Please try again.",
	},
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	_, ok := capabilities[c]
	return ok
}

// Policy returns the admission flags for c. Unknown capabilities are treated
// as premium-only.
func (c Capability) Policy() Policy {
	spec, ok := capabilities[c]
	if !ok {
		return Policy{PremiumOnly: true}
	}
	return spec.policy
}

// CreationType is the type a successful run of c is recorded under.
func (c Capability) CreationType() CreationType {
	return capabilities[c].creationType
}

// FailureMessage is the user-facing text returned when c fails upstream.
func (c Capability) FailureMessage() string {
	if spec, ok := capabilities[c]; ok {
		return spec.failure
	}
	return "Request failed. Please try again."
}
