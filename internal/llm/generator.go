package llm

import "context"

// Generator defines the interface for text generation models.
type Generator interface {
	// Generate produces text for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name returns the name/identifier of the generation model.
	Name() string
}
