package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is the last-resort provider in the default chain. Unlike the
// OpenAI-compatible providers it speaks the genai SDK, so the message list
// is flattened into a single prompt with the system turn hoisted into
// SystemInstruction.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini provider.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Name identifies the provider in logs.
func (g *Gemini) Name() string {
	return "gemini"
}

// Complete generates a completion for the message list.
func (g *Gemini) Complete(ctx context.Context, messages []Message) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.2)

	var prompt strings.Builder
	for _, m := range messages {
		switch m.Role {
		case "system":
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
		case "assistant":
			prompt.WriteString("Assistant: " + m.Content + "\n")
		default:
			prompt.WriteString("User: " + m.Content + "\n")
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", newTimeoutError(g.Name())
		}
		return "", &Error{Type: ErrTypeServiceUnavailable, Provider: g.Name(), Message: err.Error()}
	}

	text, err := extractText(resp)
	if err != nil {
		return "", newEmptyContentError(g.Name())
	}
	return text, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
