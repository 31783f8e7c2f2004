package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"quickai/internal/domain"
	"quickai/internal/generation"
)

const (
	maxJSONBody       = 1 << 20
	maxImageUpload    = 20 << 20
	maxMultipartBody  = maxImageUpload + 1<<20
	multipartInMemory = 8 << 20
)

type articleRequest struct {
	Prompt string `json:"prompt"`
	Length string `json:"length"`
}

type promptRequest struct {
	Prompt  string `json:"prompt"`
	Publish bool   `json:"publish"`
}

func (a *App) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	var body articleRequest
	if !a.decodeJSON(w, r, &body) {
		return
	}
	a.run(w, r, generation.Request{Capability: domain.CapabilityArticle, Prompt: body.Prompt, Length: body.Length})
}

func (a *App) GenerateBlogTitle(w http.ResponseWriter, r *http.Request) {
	var body promptRequest
	if !a.decodeJSON(w, r, &body) {
		return
	}
	a.run(w, r, generation.Request{Capability: domain.CapabilityBlogTitle, Prompt: body.Prompt})
}

func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var body promptRequest
	if !a.decodeJSON(w, r, &body) {
		return
	}
	a.run(w, r, generation.Request{Capability: domain.CapabilityImage, Prompt: body.Prompt, Publish: body.Publish})
}

func (a *App) RemoveImageBackground(w http.ResponseWriter, r *http.Request) {
	file, ok := a.formFile(w, r, "image", maxImageUpload)
	if !ok {
		return
	}
	a.run(w, r, generation.Request{Capability: domain.CapabilityBackgroundRemoval, File: file})
}

func (a *App) RemoveImageObject(w http.ResponseWriter, r *http.Request) {
	file, ok := a.formFile(w, r, "image", maxImageUpload)
	if !ok {
		return
	}
	a.run(w, r, generation.Request{Capability: domain.CapabilityObjectRemoval, File: file, Object: r.FormValue("object")})
}

func (a *App) ResumeReview(w http.ResponseWriter, r *http.Request) {
	file, ok := a.formFile(w, r, "resume", generation.MaxResumeBytes)
	if !ok {
		return
	}
	a.run(w, r, generation.Request{Capability: domain.CapabilityResumeReview, File: file})
}

func (a *App) run(w http.ResponseWriter, r *http.Request, req generation.Request) {
	principal, ok := a.principal(w, r)
	if !ok {
		return
	}
	out := a.Pipeline.Run(r.Context(), principal, req)
	a.json(w, http.StatusOK, encodeOutcome(req.Capability, out))
}

func (a *App) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if _, ok := a.principal(w, r); !ok {
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		a.fail(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// formFile reads the named multipart part into memory, keeping at most
// limit+1 bytes so oversized uploads are still reported with their size.
// A missing part yields a nil file and is rejected later by validation.
func (a *App) formFile(w http.ResponseWriter, r *http.Request, field string, limit int64) (*generation.File, bool) {
	if _, ok := a.principal(w, r); !ok {
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(multipartInMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, true
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.json(w, http.StatusOK, envelope{Success: false, Message: "Uploaded file is too large."})
			return nil, false
		}
		a.fail(w, http.StatusBadRequest, msgInvalidBody)
		return nil, false
	}
	part, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		a.fail(w, http.StatusBadRequest, msgInvalidBody)
		return nil, false
	}
	defer part.Close()
	data, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		a.fail(w, http.StatusBadRequest, msgInvalidBody)
		return nil, false
	}
	return &generation.File{
		Name:        header.Filename,
		ContentType: contentType(header),
		Size:        header.Size,
		Data:        data,
	}, true
}

func contentType(h *multipart.FileHeader) string {
	if ct := strings.TrimSpace(h.Header.Get("Content-Type")); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
