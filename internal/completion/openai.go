// OpenAI-compatible chat-completions client.
//
// The client speaks the plain JSON chat/completions dialect so it works
// against api.openai.com as well as any compatible gateway. Every request
// carries a fixed system instruction describing the advisory persona and
// fixed generation parameters (temperature, max tokens) from configuration.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/globemate/globemate-backend/internal/config"
)

// systemPrompt is the persona instruction prepended to every request. It
// pins the assistant to the five advisory topic areas.
const systemPrompt = `You are GlobeMate, a friendly and knowledgeable study abroad assistant. You help students navigate the complexities of international education, providing accurate and helpful information on:

1. University selection and application processes
2. Visa requirements and application procedures
3. Scholarship opportunities and financial planning
4. Housing and accommodation options
5. Cultural adaptation and preparation

Keep your responses friendly, concise, and informative. When you don't know something specific, acknowledge this and suggest reliable sources where the student might find more information.

Always maintain a supportive tone and encourage students to explore their options.`

// OpenAIClient calls an OpenAI-compatible chat-completions endpoint.
// It is safe for concurrent use.
type OpenAIClient struct {
	httpc       *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIClient constructs a client from the completion configuration.
// The HTTP client timeout is the per-call budget; callers may tighten it
// further through the request context.
func NewOpenAIClient(cfg config.CompletionConfig) *OpenAIClient {
	return &OpenAIClient{
		httpc:       &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt to the provider and returns the generated reply.
// Any provider-side problem is logged with detail and surfaced to the caller
// as ErrGenerationFailed.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		log.Error().Err(err).Msg("completion: marshal request")
		return "", ErrGenerationFailed
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("completion: build request")
		return "", ErrGenerationFailed
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("completion: provider request failed")
		return "", ErrGenerationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(detail)).
			Msg("completion: provider returned non-OK status")
		return "", ErrGenerationFailed
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error().Err(err).Msg("completion: decode response")
		return "", ErrGenerationFailed
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		log.Error().Msg("completion: provider returned no content")
		return "", ErrGenerationFailed
	}
	return out.Choices[0].Message.Content, nil
}
