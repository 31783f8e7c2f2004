package domain

import "time"

// CreationType enumerates the kinds of persisted creations.
type CreationType string

const (
	CreationArticle      CreationType = "article"
	CreationBlogTitle    CreationType = "blog-title"
	CreationImage        CreationType = "image"
	CreationResumeReview CreationType = "resume-review"
)

// Creation is one immutable record of a completed generation. Only Likes
// changes after insert.
type Creation struct {
	ID        string       `json:"id"`
	UserID    Identity     `json:"user_id"`
	Prompt    string       `json:"prompt"`
	Content   string       `json:"content"`
	Type      CreationType `json:"type"`
	Publish   bool         `json:"publish"`
	Likes     []string     `json:"likes"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewCreation carries the fields supplied when a creation is recorded.
type NewCreation struct {
	UserID  Identity
	Prompt  string
	Content string
	Type    CreationType
	Publish bool
}
