// Package generation builds prompts for each capability and drives the
// external text, image, storage and parsing collaborators.
package generation

import "context"

// TextGenerator runs one chat completion. maxTokens <= 0 leaves the
// allowance to the provider.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageGenerator turns a prompt into encoded image bytes.
type ImageGenerator interface {
	TextToImage(ctx context.Context, prompt string) ([]byte, error)
}

// UploadOptions carries an optional effect applied by the media store while
// ingesting the asset.
type UploadOptions struct {
	Filename string
	Effect   string
}

// UploadedAsset is the media store's reference to a stored asset.
type UploadedAsset struct {
	PublicID  string
	SecureURL string
}

// MediaStore uploads assets and derives transformed delivery URLs.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, opts UploadOptions) (UploadedAsset, error)
	TransformURL(publicID, effect string) string
}

// DocumentParser extracts the plain text of a document.
type DocumentParser interface {
	PlainText(ctx context.Context, data []byte) (string, error)
}
