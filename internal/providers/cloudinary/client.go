// Package cloudinary uploads images through Cloudinary's signed upload API and
// builds transformation delivery URLs.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"quickai/internal/generation"
	"quickai/internal/infra"
)

// ErrMissingCredentials indicates an incomplete cloud name / key / secret triple.
var ErrMissingCredentials = errors.New("cloudinary: cloud name, api key and api secret are required")

// Options configures the Cloudinary client.
type Options struct {
	CloudName       string
	APIKey          string
	APISecret       string
	BaseURL         string
	DeliveryBaseURL string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	RequestTimeout  time.Duration
	Now             func() time.Time
}

// Client implements generation.MediaStore.
type Client struct {
	cloudName    string
	apiKey       string
	apiSecret    string
	baseURL      string
	deliveryBase string
	httpClient   *http.Client
	logger       *infra.Logger
	now          func() time.Time
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com/v1_1"
	}
	delivery := strings.TrimRight(strings.TrimSpace(opts.DeliveryBaseURL), "/")
	if delivery == "" {
		delivery = "https://res.cloudinary.com"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &Client{
		cloudName:    strings.TrimSpace(opts.CloudName),
		apiKey:       strings.TrimSpace(opts.APIKey),
		apiSecret:    strings.TrimSpace(opts.APISecret),
		baseURL:      baseURL,
		deliveryBase: delivery,
		httpClient:   httpClient,
		logger:       logger,
		now:          now,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// Upload stores data as an image asset. A non-empty Effect is applied as an
// incoming transformation so the stored asset already carries it.
func (c *Client) Upload(ctx context.Context, data []byte, opts generation.UploadOptions) (generation.UploadedAsset, error) {
	if !c.HasCredentials() {
		return generation.UploadedAsset{}, ErrMissingCredentials
	}
	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if opts.Effect != "" {
		params["transformation"] = "e_" + opts.Effect
	}
	params["signature"] = sign(params, c.apiSecret)
	params["api_key"] = c.apiKey

	filename := opts.Filename
	if filename == "" {
		filename = "upload"
	}
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for _, k := range sortedKeys(params) {
		if err := form.WriteField(k, params[k]); err != nil {
			return generation.UploadedAsset{}, fmt.Errorf("cloudinary: encode form: %w", err)
		}
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: encode form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: encode form: %w", err)
	}
	if err := form.Close(); err != nil {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: encode form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: read response: %w", err)
	}
	var decoded uploadResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode >= 300 {
			return generation.UploadedAsset{}, fmt.Errorf("cloudinary: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: %s", decoded.Error.Message)
	}
	if resp.StatusCode >= 300 {
		return generation.UploadedAsset{}, fmt.Errorf("cloudinary: status %d", resp.StatusCode)
	}
	c.logger.Debug().
		Str("public_id", decoded.PublicID).
		Str("effect", opts.Effect).
		Msg("cloudinary: uploaded asset")
	return generation.UploadedAsset{PublicID: decoded.PublicID, SecureURL: decoded.SecureURL}, nil
}

// TransformURL returns the delivery URL of publicID with effect applied on
// the fly.
func (c *Client) TransformURL(publicID, effect string) string {
	segments := []string{c.deliveryBase, url.PathEscape(c.cloudName), "image", "upload"}
	if effect != "" {
		segments = append(segments, "e_"+effect)
	}
	segments = append(segments, publicID)
	return strings.Join(segments, "/")
}

// sign computes the upload signature: sha1 over the sorted key=value pairs
// joined by '&', followed by the API secret.
func sign(params map[string]string, secret string) string {
	pairs := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ generation.MediaStore = (*Client)(nil)
