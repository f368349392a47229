package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/marataitester-blip/psy-color-deep/internal/adapters/apierr"
	"github.com/marataitester-blip/psy-color-deep/internal/domain"
)

const maxResponseBytes = 1 << 20

// SystemPrompt instructs the model to answer with the reading as bare JSON.
const SystemPrompt = `You are a Jungian psychologist and tarot expert. Analyze the user's emotional state and choose the single tarot card that reflects it.

Respond with ONLY a JSON object (no markdown, no code fences, no extra text) with these fields:
{
  "card_name": "<tarot card name in Russian>",
  "interpretation": "<interpretation in Russian, at most 3 sentences>",
  "image_prompt": "<English visual description of the card for an image generator>"
}`

// Client implements ports.Interpreter against an OpenAI-compatible chat
// completions API (Groq by default).
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	model          string
	fallbackModels []string
	temperature    float32
	logger         *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL, model string, fallbackModels []string, temperature float32, logger *slog.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		apiKey:         strings.TrimSpace(apiKey),
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		fallbackModels: fallbackModels,
		temperature:    temperature,
		logger:         logger,
	}
}

// Interpret tries the primary model, then each fallback model, and returns
// the first successful raw response body.
func (c *Client) Interpret(ctx context.Context, userText string) ([]byte, error) {
	models := make([]string, 0, 1+len(c.fallbackModels))
	models = append(models, c.model)
	models = append(models, c.fallbackModels...)

	var lastErr error
	for _, model := range models {
		body, err := c.complete(ctx, model, userText)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if len(models) > 1 {
			c.logger.WarnContext(ctx, "model failed, trying next", "model", model, "error", err)
		}
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, lastErr)
}

func (c *Client) complete(ctx context.Context, model, userText string) ([]byte, error) {
	reqBody := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: c.temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, apierr.Message(respBody))
	}

	return respBody, nil
}
