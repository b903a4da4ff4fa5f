package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"docchat/internal/domain"
	"docchat/internal/port"
)

var (
	bucketDocs          = []byte("docs")
	bucketChunks        = []byte("chunks")
	bucketDocChunks     = []byte("doc_chunks")
	bucketConversations = []byte("conversations")
)

// BoltStore persists documents, chunks and conversations in a single
// bbolt file. Each call is one transaction; the index layer is the only
// writer, so no cross-call coordination is needed.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketDocs, bucketChunks, bucketDocChunks, bucketConversations}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// docMeta stores the scope as the raw conversation id; empty means
// global. A flattened sentinel string would collide with a conversation
// literally named after it.
type docMeta struct {
	Name         string `json:"name"`
	Content      string `json:"content"`
	CreatedAt    int64  `json:"created_at"`
	ChunkCount   int    `json:"chunk_count"`
	Conversation string `json:"conversation,omitempty"`
}

type chunkMeta struct {
	DocID     string   `json:"doc_id"`
	DocName   string   `json:"doc_name"`
	Content   string   `json:"content"`
	Position  int      `json:"position"`
	Tokens    []string `json:"tokens"`
	CreatedAt int64    `json:"created_at"`
}

func (s *BoltStore) SaveDocument(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := docMeta{
			Name:         doc.Name,
			Content:      doc.Content,
			CreatedAt:    doc.CreatedAt.UnixNano(),
			ChunkCount:   doc.ChunkCount,
			Conversation: doc.Scope.Conversation,
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Put([]byte(doc.ID), data)
	})
}

func (s *BoltStore) GetAllDocuments() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocs)
		return b.ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			docs = append(docs, domain.Document{
				ID:         string(k),
				Name:       meta.Name,
				Content:    meta.Content,
				CreatedAt:  time.Unix(0, meta.CreatedAt),
				ChunkCount: meta.ChunkCount,
				Scope:      domain.Scope{Conversation: meta.Conversation},
			})
			return nil
		})
	})
	return docs, err
}

func (s *BoltStore) DeleteDocument(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

func (s *BoltStore) SaveChunks(chunks []domain.Chunk) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		chunkBucket := tx.Bucket(bucketChunks)
		docChunks := tx.Bucket(bucketDocChunks)

		byDoc := make(map[string][]string)

		for _, chunk := range chunks {
			meta := chunkMeta{
				DocID:     chunk.DocID,
				DocName:   chunk.DocName,
				Content:   chunk.Content,
				Position:  chunk.Position,
				Tokens:    chunk.Tokens,
				CreatedAt: chunk.CreatedAt.UnixNano(),
			}
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := chunkBucket.Put([]byte(chunk.ID), data); err != nil {
				return err
			}
			byDoc[chunk.DocID] = append(byDoc[chunk.DocID], chunk.ID)
		}

		for docID, ids := range byDoc {
			var existing []string
			if data := docChunks.Get([]byte(docID)); data != nil {
				if err := json.Unmarshal(data, &existing); err != nil {
					return fmt.Errorf("corrupt chunk list for document %s: %w", docID, err)
				}
			}
			existing = append(existing, ids...)
			data, err := json.Marshal(existing)
			if err != nil {
				return err
			}
			if err := docChunks.Put([]byte(docID), data); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *BoltStore) GetAllChunks() ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		return b.ForEach(func(k, v []byte) error {
			var meta chunkMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			chunks = append(chunks, domain.Chunk{
				ID:        string(k),
				DocID:     meta.DocID,
				DocName:   meta.DocName,
				Content:   meta.Content,
				Position:  meta.Position,
				Tokens:    meta.Tokens,
				CreatedAt: time.Unix(0, meta.CreatedAt),
			})
			return nil
		})
	})
	return chunks, err
}

func (s *BoltStore) DeleteChunksByDoc(docID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		docChunks := tx.Bucket(bucketDocChunks)
		data := docChunks.Get([]byte(docID))
		if data == nil {
			return nil
		}
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		chunkBucket := tx.Bucket(bucketChunks)
		for _, id := range ids {
			if err := chunkBucket.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return docChunks.Delete([]byte(docID))
	})
}

func (s *BoltStore) SaveConversation(conv domain.Conversation) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(conv)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketConversations).Put([]byte(conv.ID), data)
	})
}

func (s *BoltStore) GetConversation(id string) (domain.Conversation, error) {
	var conv domain.Conversation
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConversations).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", port.ErrConversationNotFound, id)
		}
		return json.Unmarshal(data, &conv)
	})
	return conv, err
}

func (s *BoltStore) ListConversations() ([]domain.Conversation, error) {
	var convs []domain.Conversation
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketConversations)
		return b.ForEach(func(k, v []byte) error {
			var conv domain.Conversation
			if err := json.Unmarshal(v, &conv); err != nil {
				return err
			}
			convs = append(convs, conv)
			return nil
		})
	})
	return convs, err
}

func (s *BoltStore) DeleteConversation(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConversations).Delete([]byte(id))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
