package clipdrop

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTextToImage(t *testing.T) {
	client := NewClient(Options{
		APIKey: "clip-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.String() != "https://clipdrop-api.co/text-to-image/v1" {
				t.Fatalf("unexpected url %s", r.URL)
			}
			if r.Header.Get("x-api-key") != "clip-key" {
				t.Fatalf("missing api key header")
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			if got := r.FormValue("prompt"); got != "a red fox" {
				t.Fatalf("prompt = %q", got)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"image/png"}},
				Body:       io.NopCloser(strings.NewReader("\x89PNG")),
			}, nil
		})},
	})
	data, err := client.TextToImage(context.Background(), "a red fox")
	if err != nil {
		t.Fatalf("TextToImage error: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestTextToImageErrors(t *testing.T) {
	client := NewClient(Options{
		APIKey: "clip-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusPaymentRequired,
				Body:       io.NopCloser(strings.NewReader(`{"error":"no credits"}`)),
			}, nil
		})},
	})
	_, err := client.TextToImage(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "402") {
		t.Fatalf("error = %v, want status 402", err)
	}
	if _, err := NewClient(Options{}).TextToImage(context.Background(), "p"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
}
