package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Chain tries providers in priority order until one returns usable content.
// It is a plain sequential fallback: no retry with backoff, no circuit
// breaking, no health tracking across requests.
type Chain struct {
	providers      []Provider
	attemptTimeout time.Duration
	logger         *zap.Logger
}

// NewChain builds a chain over the given providers, in order.
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers:      providers,
		attemptTimeout: defaultAttemptTimeout,
		logger:         logger,
	}
}

// SetAttemptTimeout overrides the per-provider timeout (for tests).
func (c *Chain) SetAttemptTimeout(d time.Duration) {
	c.attemptTimeout = d
}

// Complete returns the first provider's non-empty content. Once a provider
// succeeds no later provider is contacted. If every provider fails it
// returns ErrAllProvidersFailed.
func (c *Chain) Complete(ctx context.Context, messages []Message) (string, error) {
	for _, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		content, err := p.Complete(attemptCtx, messages)
		cancel()

		if err == nil && content != "" {
			return content, nil
		}

		c.logger.Warn("completion provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.Error(err))

		if ctx.Err() != nil {
			// The caller's context is gone; later providers would fail the
			// same way.
			return "", ctx.Err()
		}
	}
	return "", ErrAllProvidersFailed
}
