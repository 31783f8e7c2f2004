package pipeline

import "quickai/internal/admission"

// Outcome is the result of one pipeline run: exactly one of Admitted,
// Denied or Failed.
type Outcome interface {
	outcome()
	Kind() string
}

// Admitted carries generated content. UsageCount is set only when the
// caller's free counter was charged.
type Admitted struct {
	Content    string
	UsageCount *int
}

// Denied means the admission gate refused the request.
type Denied struct {
	Reason admission.Reason
}

// Failed means validation or an upstream call failed. Detail holds the raw
// upstream error text and is empty for validation failures.
type Failed struct {
	Message    string
	Detail     string
	Validation bool
}

func (Admitted) outcome() {}
func (Denied) outcome()   {}
func (Failed) outcome()   {}

func (Admitted) Kind() string { return "admitted" }
func (Denied) Kind() string   { return "denied" }

func (f Failed) Kind() string {
	if f.Validation {
		return "invalid"
	}
	return "failed"
}
