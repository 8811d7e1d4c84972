package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"zoo-assistant/api"
)

const CHAT_COMPLETIONS_ENDPOINT = "/chat/completions"

// OpenAIClientOptions tunes a chat-completions call.
type OpenAIClientOptions struct {
	APIKey            string
	Model             string
	MaxTokens         int
	Temperature       float64
	RequestsPerMinute int
}

// OpenAIClient embeds the common HTTPClient
type OpenAIClient struct {
	*api.HTTPClient
	opts    OpenAIClientOptions
	limiter *rate.Limiter
}

// NewOpenAIClient creates a new instance of OpenAIClient. A zero
// RequestsPerMinute disables client-side rate limiting.
func NewOpenAIClient(httpClient *api.HTTPClient, opts OpenAIClientOptions) *OpenAIClient {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60), 1)
	}
	return &OpenAIClient{
		HTTPClient: httpClient,
		opts:       opts,
		limiter:    limiter,
	}
}

// Complete sends one system + user exchange and returns the assistant text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("openai: rate limiter: %w", err)
	}

	body := chatCompletionRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.opts.APIKey}

	var response chatCompletionResponse
	if err := c.Request(ctx, "POST", CHAT_COMPLETIONS_ENDPOINT, headers, body, &response); err != nil {
		return "", providerError(err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai: response %s has no choices", response.ID)
	}

	text := strings.TrimSpace(response.Choices[0].Message.Content)
	log.Printf("[OpenAIClient] Completion %s finished (%s), %d chars",
		response.ID, response.Choices[0].FinishReason, len(text))
	return text, nil
}

func providerError(err error) error {
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	pe := &ProviderError{StatusCode: statusErr.StatusCode, Message: statusErr.Status}
	var body errorResponse
	if json.Unmarshal(statusErr.Body, &body) == nil && body.Error.Message != "" {
		pe.Type = body.Error.Type
		pe.Message = body.Error.Message
	}
	return pe
}
