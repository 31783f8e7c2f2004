package generation

import (
	"context"
	"errors"
	"strings"

	"quickai/internal/domain"
)

// Orchestrator runs the upstream work for one admitted request. It never
// retries and never touches the quota or the creation log.
type Orchestrator struct {
	text   TextGenerator
	images ImageGenerator
	media  MediaStore
	docs   DocumentParser
}

func NewOrchestrator(text TextGenerator, images ImageGenerator, media MediaStore, docs DocumentParser) *Orchestrator {
	return &Orchestrator{text: text, images: images, media: media, docs: docs}
}

// Validate checks the payload shape for the capability without calling out.
func Validate(req Request) error {
	if !req.Capability.Valid() {
		return domain.Invalid("capability", "Unknown capability.")
	}
	switch req.Capability {
	case domain.CapabilityArticle, domain.CapabilityBlogTitle, domain.CapabilityImage:
		if strings.TrimSpace(req.Prompt) == "" {
			return domain.Invalid("prompt", "Prompt is required.")
		}
	case domain.CapabilityBackgroundRemoval:
		if !hasFile(req.File) {
			return domain.Invalid("image", "Image file is required.")
		}
	case domain.CapabilityObjectRemoval:
		if !hasFile(req.File) {
			return domain.Invalid("image", "Image file is required.")
		}
		if !singleToken(req.Object) {
			return domain.Invalid("object", "Please enter a single object name to remove")
		}
	case domain.CapabilityResumeReview:
		if !hasFile(req.File) {
			return domain.Invalid("resume", "Resume file is required.")
		}
		if req.File.Size > MaxResumeBytes || int64(len(req.File.Data)) > MaxResumeBytes {
			return domain.Invalid("resume", "Resume file size exceeds 5MB limit.")
		}
	}
	return nil
}

// Generate validates req and performs the capability's upstream calls.
// Validation failures are *domain.ValidationError; anything that fails
// after that is wrapped in *domain.UpstreamError.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}
	res, err := o.run(ctx, req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return Result{}, err
		}
		return Result{}, &domain.UpstreamError{
			Capability: req.Capability,
			Message:    req.Capability.FailureMessage(),
			Err:        err,
		}
	}
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request) (Result, error) {
	switch req.Capability {
	case domain.CapabilityArticle:
		out, err := o.complete(ctx, articlePrompt(req.Prompt, req.Length), 0)
		return Result{Content: out, Prompt: req.Prompt}, err
	case domain.CapabilityBlogTitle:
		out, err := o.complete(ctx, blogTitlePrompt(req.Prompt), 0)
		return Result{Content: out, Prompt: req.Prompt}, err
	case domain.CapabilityImage:
		return o.generateImage(ctx, req)
	case domain.CapabilityBackgroundRemoval:
		url, err := o.uploadURL(ctx, req.File, effectBackgroundRemoval)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: url, Prompt: promptBackgroundRemoval}, nil
	case domain.CapabilityObjectRemoval:
		asset, err := o.upload(ctx, req.File, "")
		if err != nil {
			return Result{}, err
		}
		if asset.PublicID == "" {
			return Result{}, errors.New("media store returned no public id")
		}
		return Result{
			Content: o.media.TransformURL(asset.PublicID, objectEffect(req.Object)),
			Prompt:  objectRemovedPrompt(req.Object),
		}, nil
	case domain.CapabilityResumeReview:
		return o.reviewResume(ctx, req)
	}
	return Result{}, domain.Invalid("capability", "Unknown capability.")
}

func (o *Orchestrator) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if o.text == nil {
		return "", errors.New("text generator not configured")
	}
	return o.text.Complete(ctx, prompt, maxTokens)
}

func (o *Orchestrator) generateImage(ctx context.Context, req Request) (Result, error) {
	if o.images == nil {
		return Result{}, errors.New("image generator not configured")
	}
	data, err := o.images.TextToImage(ctx, req.Prompt)
	if err != nil {
		return Result{}, err
	}
	url, err := o.uploadURL(ctx, &File{Name: "generated.png", ContentType: "image/png", Data: data}, "")
	if err != nil {
		return Result{}, err
	}
	return Result{Content: url, Prompt: req.Prompt, Publish: req.Publish}, nil
}

// uploadURL uploads f and returns the delivery URL the media store reported.
func (o *Orchestrator) uploadURL(ctx context.Context, f *File, effect string) (string, error) {
	asset, err := o.upload(ctx, f, effect)
	if err != nil {
		return "", err
	}
	if asset.SecureURL == "" {
		return "", errors.New("media store returned no secure url")
	}
	return asset.SecureURL, nil
}

func (o *Orchestrator) upload(ctx context.Context, f *File, effect string) (UploadedAsset, error) {
	if o.media == nil {
		return UploadedAsset{}, errors.New("media store not configured")
	}
	asset, err := o.media.Upload(ctx, f.Data, UploadOptions{Filename: f.Name, Effect: effect})
	if err != nil {
		return UploadedAsset{}, err
	}
	if asset.SecureURL == "" && asset.PublicID == "" {
		return UploadedAsset{}, errors.New("media store returned an empty asset")
	}
	return asset, nil
}

func (o *Orchestrator) reviewResume(ctx context.Context, req Request) (Result, error) {
	if o.docs == nil {
		return Result{}, errors.New("document parser not configured")
	}
	text, err := o.docs.PlainText(ctx, req.File.Data)
	if err != nil {
		return Result{}, err
	}
	out, err := o.complete(ctx, resumePrompt(text), resumeMaxTokens)
	if err != nil {
		return Result{}, err
	}
	return Result{Content: out, Prompt: promptResumeReview}, nil
}

func hasFile(f *File) bool {
	return f != nil && len(f.Data) > 0
}
