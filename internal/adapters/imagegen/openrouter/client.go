package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/marataitester-blip/psy-color-deep/internal/adapters/apierr"
	"github.com/marataitester-blip/psy-color-deep/internal/domain"
)

// Inline base64 images are large; anything past this is not a usable response.
const maxResponseBytes = 32 << 20

// Options selects the model and output shape of generated images.
type Options struct {
	Model          string
	Width          int
	Height         int
	ResponseFormat string
	Referer        string
	Title          string
}

// Client implements ports.Illustrator via the OpenRouter images API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	opts       Options
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL string, opts Options, logger *slog.Logger) *Client {
	if opts.ResponseFormat == "" {
		opts.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		opts:       opts,
		logger:     logger,
	}
}

// generationRequest extends the OpenAI image request with the width/height
// and num_images fields some OpenRouter providers read instead of size and n.
type generationRequest struct {
	openai.ImageRequest
	NumImages int `json:"num_images"`
	Width     int `json:"width,omitempty"`
	Height    int `json:"height,omitempty"`
}

func (c *Client) Illustrate(ctx context.Context, prompt string) ([]byte, error) {
	reqBody := generationRequest{
		ImageRequest: openai.ImageRequest{
			Prompt:         prompt,
			Model:          c.opts.Model,
			N:              1,
			ResponseFormat: c.opts.ResponseFormat,
		},
		NumImages: 1,
		Width:     c.opts.Width,
		Height:    c.opts.Height,
	}
	if c.opts.Width > 0 && c.opts.Height > 0 {
		reqBody.Size = fmt.Sprintf("%dx%d", c.opts.Width, c.opts.Height)
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", domain.ErrUpstreamImage, err)
	}

	url := c.baseURL + "/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrUpstreamImage, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.opts.Referer != "" {
		req.Header.Set("HTTP-Referer", c.opts.Referer)
	}
	if c.opts.Title != "" {
		req.Header.Set("X-Title", c.opts.Title)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http call: %w", domain.ErrUpstreamImage, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrUpstreamImage, err)
	}

	c.logger.DebugContext(ctx, "image generation finished",
		"model", c.opts.Model,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: upstream status %d: %s", domain.ErrUpstreamImage, resp.StatusCode, apierr.Message(respBody))
	}

	return respBody, nil
}
