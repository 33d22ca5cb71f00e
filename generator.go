package sitescribe

import "context"

// GenerateRequest is the payload handed to a Generator.
type GenerateRequest struct {
	// System is the system instruction. Optional.
	System string

	// Prompt is the user prompt.
	Prompt string

	// JSON asks the model to answer with a JSON document.
	JSON bool

	// Temperature of the sampling. Zero means the generator's default.
	Temperature float32

	// MaxTokens caps the output length. Zero means the generator's default.
	MaxTokens int
}

// Generator forwards prompts to an external completion endpoint.
// The output is non-deterministic; callers validate nothing beyond
// parse success.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
