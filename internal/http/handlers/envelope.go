package handlers

import (
	"quickai/internal/admission"
	"quickai/internal/domain"
	"quickai/internal/pipeline"
)

const (
	msgQuotaExhausted = "Limit reached. Upgrade to premium for more requests."
	msgPlanRequired   = "This feature is only available for premium users."
	msgInvalidBody    = "Invalid request body."
)

var successMessages = map[domain.Capability]string{
	domain.CapabilityArticle:   "Article generated successfully",
	domain.CapabilityBlogTitle: "Blog title generated successfully",
}

// envelope is the flat wire shape every AI and user endpoint answers with.
type envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Content    string `json:"content,omitempty"`
	Article    string `json:"article,omitempty"`
	UsageCount *int   `json:"usage_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

type creationsEnvelope struct {
	Success   bool              `json:"success"`
	Creations []domain.Creation `json:"creations"`
}

func denialMessage(reason admission.Reason) string {
	if reason == admission.QuotaExhausted {
		return msgQuotaExhausted
	}
	return msgPlanRequired
}

// encodeOutcome flattens a pipeline outcome for capability c.
func encodeOutcome(c domain.Capability, out pipeline.Outcome) envelope {
	switch o := out.(type) {
	case pipeline.Admitted:
		env := envelope{Success: true, Content: o.Content, Message: successMessages[c]}
		if c == domain.CapabilityArticle || c == domain.CapabilityBlogTitle {
			env.Article = o.Content
			env.UsageCount = o.UsageCount
		}
		return env
	case pipeline.Denied:
		return envelope{Success: false, Message: denialMessage(o.Reason)}
	case pipeline.Failed:
		return envelope{Success: false, Message: o.Message, Error: o.Detail}
	}
	return envelope{Success: false, Message: c.FailureMessage()}
}
