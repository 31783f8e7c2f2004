package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"quickai/internal/admission"
	"quickai/internal/domain"
	"quickai/internal/generation"
	"quickai/internal/middleware"
	"quickai/internal/pipeline"
)

type fakeRunner struct {
	out   pipeline.Outcome
	calls []generation.Request
}

func (f *fakeRunner) Run(_ context.Context, _ domain.Principal, req generation.Request) pipeline.Outcome {
	f.calls = append(f.calls, req)
	return f.out
}

type fakeRepo struct {
	list      []domain.Creation
	liked     bool
	toggleErr error
	lastID    string
}

func (f *fakeRepo) Create(context.Context, domain.NewCreation) (*domain.Creation, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) ListByUser(context.Context, domain.Identity) ([]domain.Creation, error) {
	return f.list, nil
}

func (f *fakeRepo) ListPublished(context.Context) ([]domain.Creation, error) {
	return f.list, nil
}

func (f *fakeRepo) ToggleLike(_ context.Context, id string, _ domain.Identity) (bool, error) {
	f.lastID = id
	return f.liked, f.toggleErr
}

func newTestApp(out pipeline.Outcome) (*App, *fakeRunner, *fakeRepo) {
	runner := &fakeRunner{out: out}
	repo := &fakeRepo{list: []domain.Creation{}}
	return NewApp(runner, repo, nil, zerolog.Nop()), runner, repo
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(middleware.ContextWithPrincipal(r.Context(), domain.Principal{Identity: "user_1"}))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestGenerateArticleSuccessEnvelope(t *testing.T) {
	count := 3
	app, runner, _ := newTestApp(pipeline.Admitted{Content: "hello", UsageCount: &count})

	req := authed(httptest.NewRequest(http.MethodPost, "/api/ai/generate-article", strings.NewReader(`{"prompt":"Go","length":"short"}`)))
	rec := httptest.NewRecorder()
	app.GenerateArticle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["content"] != "hello" || body["article"] != "hello" {
		t.Fatalf("unexpected body %#v", body)
	}
	if body["usage_count"] != float64(3) {
		t.Fatalf("usage_count = %v, want 3", body["usage_count"])
	}
	if body["message"] != "Article generated successfully" {
		t.Fatalf("message = %v", body["message"])
	}
	if len(runner.calls) != 1 || runner.calls[0].Capability != domain.CapabilityArticle || runner.calls[0].Length != "short" {
		t.Fatalf("runner calls = %#v", runner.calls)
	}
}

func TestDeniedEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		reason  admission.Reason
		message string
	}{
		{name: "quota", reason: admission.QuotaExhausted, message: msgQuotaExhausted},
		{name: "plan", reason: admission.PlanRequired, message: msgPlanRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _, _ := newTestApp(pipeline.Denied{Reason: tc.reason})
			req := authed(httptest.NewRequest(http.MethodPost, "/api/ai/generate-image", strings.NewReader(`{"prompt":"cat","publish":true}`)))
			rec := httptest.NewRecorder()
			app.GenerateImage(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := decode(t, rec)
			if body["success"] != false || body["message"] != tc.message {
				t.Fatalf("unexpected body %#v", body)
			}
			if _, ok := body["content"]; ok {
				t.Fatalf("denied response carries content: %#v", body)
			}
		})
	}
}

func TestFailedEnvelopeCarriesDetail(t *testing.T) {
	app, _, _ := newTestApp(pipeline.Failed{Message: "Failed to generate title. Please try again.", Detail: "upstream 500"})
	req := authed(httptest.NewRequest(http.MethodPost, "/api/ai/generate-blog-title", strings.NewReader(`{"prompt":"x"}`)))
	rec := httptest.NewRecorder()
	app.GenerateBlogTitle(rec, req)

	body := decode(t, rec)
	if body["success"] != false || body["error"] != "upstream 500" {
		t.Fatalf("unexpected body %#v", body)
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	app, runner, _ := newTestApp(pipeline.Admitted{Content: "x"})
	req := authed(httptest.NewRequest(http.MethodPost, "/api/ai/generate-article", strings.NewReader(`{"prompt":`)))
	rec := httptest.NewRecorder()
	app.GenerateArticle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("runner invoked for malformed body")
	}
}

func TestMissingPrincipalIsUnauthorized(t *testing.T) {
	app, runner, _ := newTestApp(pipeline.Admitted{Content: "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-article", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	app.GenerateArticle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("runner invoked without principal")
	}
}

func multipartRequest(t *testing.T, target, field, filename string, data []byte, values map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authed(req)
}

func TestRemoveImageObjectReadsMultipart(t *testing.T) {
	app, runner, _ := newTestApp(pipeline.Admitted{Content: "https://cdn/x.png"})
	req := multipartRequest(t, "/api/ai/remove-image-object", "image", "cat.png", []byte("png-bytes"), map[string]string{"object": "Dog"})
	rec := httptest.NewRecorder()
	app.RemoveImageObject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if len(runner.calls) != 1 {
		t.Fatalf("runner calls = %d, want 1", len(runner.calls))
	}
	got := runner.calls[0]
	if got.Object != "Dog" || got.File == nil || string(got.File.Data) != "png-bytes" || got.File.Name != "cat.png" {
		t.Fatalf("unexpected request %#v", got)
	}
	if got.File.Size != int64(len("png-bytes")) {
		t.Fatalf("file size = %d", got.File.Size)
	}
	body := decode(t, rec)
	if body["content"] != "https://cdn/x.png" {
		t.Fatalf("unexpected body %#v", body)
	}
	if _, ok := body["usage_count"]; ok {
		t.Fatalf("premium capability response carries usage_count")
	}
}

func TestResumeWithoutFilePassesNil(t *testing.T) {
	app, runner, _ := newTestApp(pipeline.Failed{Message: "Resume file is required.", Validation: true})
	req := multipartRequest(t, "/api/ai/resume-review", "", "", nil, map[string]string{"note": "x"})
	rec := httptest.NewRecorder()
	app.ResumeReview(rec, req)

	if len(runner.calls) != 1 || runner.calls[0].File != nil {
		t.Fatalf("expected nil file, calls = %#v", runner.calls)
	}
	body := decode(t, rec)
	if body["message"] != "Resume file is required." {
		t.Fatalf("unexpected body %#v", body)
	}
}

func TestOversizedResumeKeepsDeclaredSize(t *testing.T) {
	app, runner, _ := newTestApp(pipeline.Failed{Message: "Resume file size exceeds 5MB limit.", Validation: true})
	data := bytes.Repeat([]byte("a"), generation.MaxResumeBytes+10)
	req := multipartRequest(t, "/api/ai/resume-review", "resume", "cv.pdf", data, nil)
	rec := httptest.NewRecorder()
	app.ResumeReview(rec, req)

	if len(runner.calls) != 1 {
		t.Fatalf("runner calls = %d, want 1", len(runner.calls))
	}
	f := runner.calls[0].File
	if f.Size != int64(len(data)) {
		t.Fatalf("size = %d, want %d", f.Size, len(data))
	}
	if len(f.Data) != generation.MaxResumeBytes+1 {
		t.Fatalf("buffered %d bytes, want %d", len(f.Data), generation.MaxResumeBytes+1)
	}
}

func TestToggleLikeMessages(t *testing.T) {
	tests := []struct {
		name    string
		liked   bool
		err     error
		success bool
		message string
	}{
		{name: "liked", liked: true, success: true, message: "Creation Liked"},
		{name: "unliked", liked: false, success: true, message: "Creation Unliked"},
		{name: "missing", err: domain.ErrNotFound, success: false, message: "Creation not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _, repo := newTestApp(nil)
			repo.liked = tc.liked
			repo.toggleErr = tc.err
			req := authed(httptest.NewRequest(http.MethodPost, "/api/user/toggle-like-creation", strings.NewReader(`{"id":"abc"}`)))
			rec := httptest.NewRecorder()
			app.ToggleLikeCreation(rec, req)

			body := decode(t, rec)
			if body["success"] != tc.success || body["message"] != tc.message {
				t.Fatalf("unexpected body %#v", body)
			}
			if repo.lastID != "abc" {
				t.Fatalf("toggled id = %q", repo.lastID)
			}
		})
	}
}

func TestListCreationsEmptyIsArray(t *testing.T) {
	app, _, _ := newTestApp(nil)
	req := authed(httptest.NewRequest(http.MethodGet, "/api/user/get-published-creations", nil))
	rec := httptest.NewRecorder()
	app.GetPublishedCreations(rec, req)

	if !strings.Contains(rec.Body.String(), `"creations":[]`) {
		t.Fatalf("body = %s, want empty creations array", rec.Body.String())
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealth(t *testing.T) {
	app, _, _ := newTestApp(nil)
	app.DB = stubPinger{}
	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	app.DB = stubPinger{err: errors.New("down")}
	rec = httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
