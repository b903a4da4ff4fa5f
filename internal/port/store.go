package port

import (
	"errors"

	"docchat/internal/domain"
)

// ErrConversationNotFound is returned by GetConversation for an unknown
// id. Callers use it to tell "start a new conversation" apart from a
// failing store.
var ErrConversationNotFound = errors.New("conversation not found")

// DocumentStore persists documents and their chunks. Every call is a
// single atomic put/delete; cross-call isolation is the index's job.
type DocumentStore interface {
	SaveDocument(doc domain.Document) error

	GetAllDocuments() ([]domain.Document, error)

	DeleteDocument(id string) error

	SaveChunks(chunks []domain.Chunk) error

	GetAllChunks() ([]domain.Chunk, error)

	DeleteChunksByDoc(docID string) error

	Close() error
}

// ConversationStore persists chat history records.
type ConversationStore interface {
	SaveConversation(conv domain.Conversation) error

	GetConversation(id string) (domain.Conversation, error)

	ListConversations() ([]domain.Conversation, error)

	DeleteConversation(id string) error
}
