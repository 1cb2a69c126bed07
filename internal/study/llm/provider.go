package llm

import "context"

// Provider is a text generation backend. Generate sends one prompt and
// returns the raw completion text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
