// Package elevenlabs implements the generation.SpeechGenerator interface
// against the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lexidrill/lexidrill-api/internal/generation"
)

const (
	ttsEndpoint = "https://api.elevenlabs.io/v1/text-to-speech"

	// DefaultModelID is the low-latency flash model used for drill audio.
	DefaultModelID = "eleven_flash_v2_5"

	// DefaultVoiceID is the narrator voice all vocabulary audio uses.
	DefaultVoiceID = "qBDvhofpxp92JgXJxDjB"

	// DefaultOutputFormat is the requested audio encoding.
	DefaultOutputFormat = "mp3_44100_128"

	defaultTimeout = 30 * time.Second

	maxAudioBytes = 20 << 20
)

// Client calls the ElevenLabs streaming TTS endpoint.
type Client struct {
	apiKey       string
	modelID      string
	voiceID      string
	outputFormat string
	baseURL      string
	httpClient   *http.Client
	logger       *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithVoice overrides the voice used for synthesis.
func WithVoice(voiceID string) Option {
	return func(c *Client) { c.voiceID = voiceID }
}

// WithModelID overrides the TTS model.
func WithModelID(modelID string) Option {
	return func(c *Client) { c.modelID = modelID }
}

// WithBaseURL points the client at a different API host. Tests use this.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an ElevenLabs client for the given API key.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: elevenlabs API key cannot be empty", generation.ErrInvalidConfig)
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	c := &Client{
		apiKey:       apiKey,
		modelID:      DefaultModelID,
		voiceID:      DefaultVoiceID,
		outputFormat: DefaultOutputFormat,
		baseURL:      ttsEndpoint,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       logger.With(slog.String("component", "elevenlabs_client")),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Ensure Client implements generation.SpeechGenerator
var _ generation.SpeechGenerator = (*Client)(nil)

type ttsRequest struct {
	Text         string `json:"text"`
	ModelID      string `json:"model_id"`
	OutputFormat string `json:"output_format"`
}

// ttsError mirrors the shapes the API uses for failure bodies. The detail
// field wins when present.
type ttsError struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// GenerateSpeech implements generation.SpeechGenerator.
func (c *Client) GenerateSpeech(ctx context.Context, text string) (*generation.GeneratedFile, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", generation.ErrGenerationFailed)
	}

	body, err := json.Marshal(ttsRequest{
		Text:         text,
		ModelID:      c.modelID,
		OutputFormat: c.outputFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	endpoint := fmt.Sprintf("%s/%s/stream", c.baseURL, c.voiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("audio generation failed (status %d)", resp.StatusCode)
		if detail := readErrorDetail(resp.Body); detail != "" {
			message = message + ": " + detail
		}
		c.logger.WarnContext(ctx, "speech synthesis rejected",
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s", generation.ErrGenerationFailed, message)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio response", generation.ErrInvalidResponse)
	}

	return &generation.GeneratedFile{
		Data: data,
		Ext:  formatExtension(c.outputFormat),
	}, nil
}

// readErrorDetail best-effort extracts a human message from a failure body.
// The body may be binary, in which case this returns "".
func readErrorDetail(r io.Reader) string {
	var payload ttsError
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		return string(payload.Detail)
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func formatExtension(outputFormat string) string {
	switch {
	case strings.HasPrefix(outputFormat, "mp3"):
		return ".mp3"
	case strings.HasPrefix(outputFormat, "pcm"):
		return ".wav"
	case strings.HasPrefix(outputFormat, "mu-law"):
		return ".mulaw"
	case strings.HasPrefix(outputFormat, "ulaw"):
		return ".ulaw"
	case strings.HasPrefix(outputFormat, "opus"):
		return ".opus"
	default:
		return ".mp3"
	}
}
