// Package llm provides the completion-provider abstraction and the
// sequential fallback chain over hosted model APIs.
package llm

import "context"

// Message is one turn of a provider-ready conversation.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Provider is a single completion backend. Implementations must honor ctx
// cancellation and return ErrEmptyContent (or a typed *Error) rather than an
// empty string, so the chain can keep iterating.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Complete sends the message list and returns the assistant text.
	Complete(ctx context.Context, messages []Message) (string, error)
}
