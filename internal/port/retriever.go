package port

import "docchat/internal/domain"

// Retriever is the query surface the chat layer consumes.
type Retriever interface {
	// RetrieveRelevantChunks returns at most topK chunks visible to the
	// given conversation, best score first. Empty query or corpus yields
	// an empty result, not an error.
	RetrieveRelevantChunks(query string, topK int, conversationID string) ([]domain.RetrievalResult, error)
}
