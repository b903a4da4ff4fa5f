package domain

import (
	"errors"
	"fmt"
	"time"
)

// Scope controls which conversations can see a document's chunks.
// The zero value is the global scope, visible everywhere.
type Scope struct {
	Conversation string
}

// GlobalScope returns the scope visible to every conversation.
func GlobalScope() Scope {
	return Scope{}
}

// ConversationScope returns a scope visible only to one conversation.
func ConversationScope(id string) Scope {
	return Scope{Conversation: id}
}

func (s Scope) IsGlobal() bool {
	return s.Conversation == ""
}

// VisibleTo reports whether chunks under this scope may be returned
// for a query issued from the given conversation.
func (s Scope) VisibleTo(conversationID string) bool {
	return s.IsGlobal() || s.Conversation == conversationID
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return s.Conversation
}

type Document struct {
	ID         string
	Name       string
	Content    string
	CreatedAt  time.Time
	ChunkCount int
	Scope      Scope
}

// Validate rejects documents missing required identity fields.
func (d Document) Validate() error {
	if d.ID == "" {
		return errors.New("document missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("document %s missing name", d.ID)
	}
	return nil
}

type Chunk struct {
	ID        string
	DocID     string
	DocName   string
	Content   string
	Position  int
	Tokens    []string
	CreatedAt time.Time
}

func (c Chunk) Validate() error {
	if c.ID == "" {
		return errors.New("chunk missing id")
	}
	if c.DocID == "" {
		return fmt.Errorf("chunk %s missing doc id", c.ID)
	}
	if c.Position < 0 {
		return fmt.Errorf("chunk %s has negative position %d", c.ID, c.Position)
	}
	return nil
}

// ChunkID derives the deterministic identifier of a chunk from its
// owning document and ordinal position.
func ChunkID(docID string, position int) string {
	return fmt.Sprintf("%s-chunk-%d", docID, position)
}

// RetrievalResult is a scored chunk produced by a query. Transient,
// never persisted.
type RetrievalResult struct {
	ChunkID string  `json:"chunk_id"`
	DocName string  `json:"doc_name"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type Stats struct {
	DocumentCount int `json:"document_count"`
	ChunkCount    int `json:"chunk_count"`
	TotalChars    int `json:"total_chars"`
}

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

func (c Conversation) Validate() error {
	if c.ID == "" {
		return errors.New("conversation missing id")
	}
	return nil
}
