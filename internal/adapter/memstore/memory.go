package memstore

import (
	"fmt"
	"sync"

	"docchat/internal/domain"
	"docchat/internal/port"
)

// MemoryStore is an in-memory implementation of the store ports, used
// by the wasm build and in tests. Chunk insertion order is preserved.
type MemoryStore struct {
	mu            sync.RWMutex
	docs          map[string]domain.Document
	chunks        []domain.Chunk
	conversations map[string]domain.Conversation

	failNextSave error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:          make(map[string]domain.Document),
		conversations: make(map[string]domain.Conversation),
	}
}

// FailNextSave makes the next save call return err. Test hook.
func (s *MemoryStore) FailNextSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextSave = err
}

func (s *MemoryStore) takeFailure() error {
	err := s.failNextSave
	s.failNextSave = nil
	return err
}

func (s *MemoryStore) SaveDocument(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *MemoryStore) GetAllDocuments() ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemoryStore) DeleteDocument(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) SaveChunks(chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *MemoryStore) GetAllChunks() ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := make([]domain.Chunk, len(s.chunks))
	copy(chunks, s.chunks)
	return chunks, nil
}

func (s *MemoryStore) DeleteChunksByDoc(docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.DocID != docID {
			kept = append(kept, chunk)
		}
	}
	s.chunks = kept
	return nil
}

func (s *MemoryStore) SaveConversation(conv domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.conversations[conv.ID] = conv
	return nil
}

func (s *MemoryStore) GetConversation(id string) (domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return domain.Conversation{}, fmt.Errorf("%w: %s", port.ErrConversationNotFound, id)
	}
	return conv, nil
}

func (s *MemoryStore) ListConversations() ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	convs := make([]domain.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		convs = append(convs, conv)
	}
	return convs, nil
}

func (s *MemoryStore) DeleteConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
