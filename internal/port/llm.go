package port

import "docchat/internal/domain"

// LLM represents the remote generation endpoint. Timeout and retry
// policy live behind this boundary, not in the retrieval core.
type LLM interface {
	// Generate produces a completion for the prompt given the prior
	// conversation history.
	Generate(systemPrompt, userPrompt string, history []domain.Message) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
