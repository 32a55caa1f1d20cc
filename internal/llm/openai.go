package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAI-compatible chat-completion providers differ only in base URL, model
// name and headers, so Groq and OpenRouter share this one client.

const defaultAttemptTimeout = 15 * time.Second

// OpenAICompatible talks to any /v1/chat/completions endpoint with a bearer
// API key.
type OpenAICompatible struct {
	name         string
	baseURL      string
	model        string
	apiKey       string
	extraHeaders map[string]string
	client       *http.Client
}

// NewGroq returns the Groq provider.
func NewGroq(apiKey, model string) *OpenAICompatible {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return newOpenAICompatible("groq", "https://api.groq.com/openai", model, apiKey, nil)
}

// NewOpenRouter returns the OpenRouter provider. The referer header is
// required by OpenRouter's attribution policy.
func NewOpenRouter(apiKey, model string) *OpenAICompatible {
	if model == "" {
		model = "meta-llama/llama-3.3-70b-instruct:free"
	}
	headers := map[string]string{
		"HTTP-Referer": "https://cv-studio.app",
		"X-Title":      "CV Studio",
	}
	return newOpenAICompatible("openrouter", "https://openrouter.ai/api", model, apiKey, headers)
}

func newOpenAICompatible(name, baseURL, model, apiKey string, headers map[string]string) *OpenAICompatible {
	return &OpenAICompatible{
		name:         name,
		baseURL:      baseURL,
		model:        model,
		apiKey:       apiKey,
		extraHeaders: headers,
		client:       &http.Client{Timeout: defaultAttemptTimeout},
	}
}

// SetBaseURL overrides the API base URL (for tests).
func (c *OpenAICompatible) SetBaseURL(url string) {
	c.baseURL = url
}

// Name identifies the provider in logs.
func (c *OpenAICompatible) Name() string {
	return c.name
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete issues one chat-completion POST. There is no retry here: the
// chain's fallback policy is try-next-provider, never try-again.
func (c *OpenAICompatible) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", newTimeoutError(c.name)
		}
		return "", &Error{Type: ErrTypeServiceUnavailable, Provider: c.name, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFromStatus(resp.StatusCode, body)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", newEmptyContentError(c.name)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// errorFromStatus converts an HTTP error response into a typed error.
func (c *OpenAICompatible) errorFromStatus(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	} else if len(body) > 0 && len(body) < 200 {
		message = string(body)
	}

	errType := ErrTypeUnknown
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = ErrTypeAuthentication
	case http.StatusTooManyRequests:
		errType = ErrTypeRateLimit
	case http.StatusBadRequest:
		errType = ErrTypeInvalidRequest
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		errType = ErrTypeServiceUnavailable
	}

	return &Error{Type: errType, Provider: c.name, Message: message, StatusCode: statusCode}
}
