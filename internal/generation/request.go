package generation

import "quickai/internal/domain"

// MaxResumeBytes bounds resume uploads.
const MaxResumeBytes = 5 * 1024 * 1024

// File is an uploaded multipart part held in memory.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Request is the capability-specific payload of one generation.
type Request struct {
	Capability domain.Capability
	Prompt     string
	Length     string
	Publish    bool
	Object     string
	File       *File
}

// Result is what a successful generation produced. Prompt is the value the
// creation log stores, not necessarily what was sent upstream.
type Result struct {
	Content string
	Prompt  string
	Publish bool
}
