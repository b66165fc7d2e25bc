// Package zhipu implements the generation.ImageGenerator interface against
// the Zhipu CogView image API.
package zhipu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/lexidrill/lexidrill-api/internal/generation"
)

const (
	imageEndpoint = "https://open.bigmodel.cn/api/paas/v4/images/generations"

	// DefaultModel is the CogView model used when none is configured.
	DefaultModel = "cogview-3-flash"

	defaultTimeout = 30 * time.Second

	// Download size cap. CogView images are well under this.
	maxImageBytes = 20 << 20
)

// Client calls the CogView image generation API and downloads the result.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithModel overrides the CogView model name.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL points the client at a different API endpoint. Tests use this.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a CogView client for the given API key.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: zhipu API key cannot be empty", generation.ErrInvalidConfig)
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	c := &Client{
		apiKey:     apiKey,
		model:      DefaultModel,
		baseURL:    imageEndpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With(slog.String("component", "zhipu_client")),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Ensure Client implements generation.ImageGenerator
var _ generation.ImageGenerator = (*Client)(nil)

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateImage implements generation.ImageGenerator. It asks CogView to
// render the word and downloads the image the API links to.
func (c *Client) GenerateImage(ctx context.Context, word string) (*generation.GeneratedFile, error) {
	if word == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", generation.ErrGenerationFailed)
	}

	imageURL, err := c.requestImage(ctx, word)
	if err != nil {
		return nil, err
	}

	return c.download(ctx, imageURL)
}

func (c *Client) requestImage(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(imageRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload imageResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode != http.StatusOK {
		message := resp.Status
		if decodeErr == nil {
			if payload.Error.Message != "" {
				message = payload.Error.Message
			} else if payload.Message != "" {
				message = payload.Message
			}
		}
		c.logger.WarnContext(ctx, "image generation request rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("message", message))
		return "", fmt.Errorf("%w: image generation failed for %q: %s",
			generation.ErrGenerationFailed, prompt, message)
	}

	if decodeErr != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrInvalidResponse, decodeErr)
	}

	if len(payload.Data) == 0 || payload.Data[0].URL == "" {
		return "", fmt.Errorf("%w: no image URL returned for %q",
			generation.ErrInvalidResponse, prompt)
	}

	return payload.Data[0].URL, nil
}

func (c *Client) download(ctx context.Context, imageURL string) (*generation.GeneratedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to download generated image (status %d)",
			generation.ErrGenerationFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	return &generation.GeneratedFile{
		Data: data,
		Ext:  deriveExtension(resp.Header.Get("Content-Type"), imageURL),
	}, nil
}

// deriveExtension picks a file extension from the download's content type,
// falling back to the URL path and finally to .png.
func deriveExtension(contentType, imageURL string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	}

	if u, err := url.Parse(imageURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}

	return ".png"
}
