// Package llm wraps the generative text service behind a single-method
// capability: generate(prompt) -> text. The OpenAI implementation enforces
// the process-wide minimum inter-call interval; there is one upstream quota
// to protect, so the rate limiter is shared and injected.
package llm

import "context"

// Client is the generative text capability used by the optimization engine.
type Client interface {
	// Generate produces a completion for one prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Model reports the model identifier used for generations.
	Model() string
}
