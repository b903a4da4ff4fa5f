package usecase

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"docchat/internal/adapter/cache"
	"docchat/internal/adapter/scorer"
	"docchat/internal/domain"
	"docchat/internal/logger"
	"docchat/internal/port"
)

// ErrNotReady is returned when an operation is invoked before
// LoadFromCache has rehydrated the index.
var ErrNotReady = errors.New("index not ready: call LoadFromCache first")

// Index is the retrieval index: the single owner of the in-memory
// document and chunk corpus. It orchestrates the chunker on ingest and
// the scorer on query, and mirrors every mutation into the store.
// All operations serialize behind one mutex; there is exactly one
// logical actor mutating the corpus.
type Index struct {
	mu        sync.Mutex
	store     port.DocumentStore
	tokenizer port.Tokenizer
	chunker   port.Chunker
	scorer    *scorer.TFIDF
	cache     *cache.QueryCache

	chunkSize    int
	chunkOverlap int

	docs   map[string]domain.Document
	chunks []domain.Chunk // storage order; ties in ranking stay stable
	ready  bool
}

func NewIndex(
	store port.DocumentStore,
	tokenizer port.Tokenizer,
	chunker port.Chunker,
	tfidf *scorer.TFIDF,
	queryCache *cache.QueryCache,
	chunkSize, chunkOverlap int,
) *Index {
	return &Index{
		store:        store,
		tokenizer:    tokenizer,
		chunker:      chunker,
		scorer:       tfidf,
		cache:        queryCache,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		docs:         make(map[string]domain.Document),
	}
}

// SetChunking updates the chunk size and overlap used for future
// ingests. Already-stored chunks are not rewritten.
func (ix *Index) SetChunking(size, overlap int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if size > 0 {
		ix.chunkSize = size
	}
	if overlap >= 0 {
		ix.chunkOverlap = overlap
	}
}

// LoadFromCache rehydrates the in-memory corpus from the store. It must
// complete before any other operation is accepted. Chunks whose owning
// document no longer exists are pruned from the store.
func (ix *Index) LoadFromCache() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	docs, err := ix.store.GetAllDocuments()
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	ix.docs = make(map[string]domain.Document, len(docs))
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return fmt.Errorf("corrupt document record: %w", err)
		}
		ix.docs[doc.ID] = doc
	}

	chunks, err := ix.store.GetAllChunks()
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	orphanDocs := make(map[string]struct{})
	kept := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return fmt.Errorf("corrupt chunk record: %w", err)
		}
		if _, ok := ix.docs[chunk.DocID]; !ok {
			orphanDocs[chunk.DocID] = struct{}{}
			continue
		}
		kept = append(kept, chunk)
	}

	for docID := range orphanDocs {
		logger.Warn("pruning orphaned chunks of missing document %s", docID)
		if err := ix.store.DeleteChunksByDoc(docID); err != nil {
			return fmt.Errorf("failed to prune orphaned chunks: %w", err)
		}
	}

	// Restore storage order: documents by creation, chunks by ordinal.
	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].CreatedAt.Equal(kept[j].CreatedAt) {
			return kept[i].CreatedAt.Before(kept[j].CreatedAt)
		}
		if kept[i].DocID != kept[j].DocID {
			return kept[i].DocID < kept[j].DocID
		}
		return kept[i].Position < kept[j].Position
	})
	ix.chunks = kept

	// chunkCount always mirrors the chunks actually held.
	counts := make(map[string]int, len(ix.docs))
	for _, chunk := range kept {
		counts[chunk.DocID]++
	}
	for id, doc := range ix.docs {
		doc.ChunkCount = counts[id]
		ix.docs[id] = doc
	}

	ix.ready = true
	logger.Debug("index ready: %d documents, %d chunks", len(ix.docs), len(ix.chunks))
	return nil
}

// IngestResult reports a successful document ingest.
type IngestResult struct {
	DocID      string
	ChunkCount int
}

// AddDocument chunks and stores a new document. The only failure modes
// are validation and the underlying store.
func (ix *Index) AddDocument(name, content string, scope domain.Scope) (IngestResult, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.ready {
		return IngestResult{}, ErrNotReady
	}
	if name == "" {
		return IngestResult{}, errors.New("document name is required")
	}

	docID := uuid.New().String()
	chunks := ix.chunker.Chunk(content, docID, name, ix.chunkSize, ix.chunkOverlap)

	doc := domain.Document{
		ID:         docID,
		Name:       name,
		Content:    content,
		CreatedAt:  time.Now(),
		ChunkCount: len(chunks),
		Scope:      scope,
	}

	if err := ix.store.SaveDocument(doc); err != nil {
		return IngestResult{}, fmt.Errorf("failed to save document: %w", err)
	}
	if len(chunks) > 0 {
		if err := ix.store.SaveChunks(chunks); err != nil {
			// Roll the document back so no half-ingested record survives.
			if delErr := ix.store.DeleteDocument(docID); delErr != nil {
				logger.Warn("rollback of document %s failed: %v", docID, delErr)
			}
			return IngestResult{}, fmt.Errorf("failed to save chunks: %w", err)
		}
	}

	ix.docs[docID] = doc
	ix.chunks = append(ix.chunks, chunks...)
	ix.cache.Invalidate()

	logger.Debug("ingested %q as %s (%d chunks)", name, docID, len(chunks))
	return IngestResult{DocID: docID, ChunkCount: len(chunks)}, nil
}

// RemoveDocument deletes a document and all of its chunks. Removing an
// unknown id is a no-op.
func (ix *Index) RemoveDocument(docID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.ready {
		return ErrNotReady
	}
	if _, ok := ix.docs[docID]; !ok {
		return nil
	}

	if err := ix.store.DeleteChunksByDoc(docID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if err := ix.store.DeleteDocument(docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	delete(ix.docs, docID)
	kept := ix.chunks[:0]
	for _, chunk := range ix.chunks {
		if chunk.DocID != docID {
			kept = append(kept, chunk)
		}
	}
	ix.chunks = kept
	ix.cache.Invalidate()

	logger.Debug("removed document %s", docID)
	return nil
}

// RetrieveRelevantChunks scores every chunk visible to the conversation
// against the query and returns the topK best, descending. Document
// frequency statistics always run over the entire corpus, not just the
// visible slice. Non-positive scores are dropped; an empty query or
// corpus yields an empty result.
func (ix *Index) RetrieveRelevantChunks(query string, topK int, conversationID string) ([]domain.RetrievalResult, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.ready {
		return nil, ErrNotReady
	}

	if results, hit := ix.cache.Get(query, topK, conversationID); hit {
		logger.Debug("cache hit for %q", query)
		return results, nil
	}

	queryTokens := ix.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 || len(ix.chunks) == 0 {
		return nil, nil
	}

	df := ix.scorer.DocFrequencies(queryTokens, ix.chunks)
	corpusSize := len(ix.chunks)

	results := make([]domain.RetrievalResult, 0, len(ix.chunks))
	for _, chunk := range ix.chunks {
		doc, ok := ix.docs[chunk.DocID]
		if !ok || !doc.Scope.VisibleTo(conversationID) {
			continue
		}
		score := ix.scorer.ScoreWithStats(queryTokens, chunk.Tokens, df, corpusSize)
		if score <= 0 {
			continue
		}
		results = append(results, domain.RetrievalResult{
			ChunkID: chunk.ID,
			DocName: chunk.DocName,
			Content: chunk.Content,
			Score:   score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	ix.cache.Put(query, topK, conversationID, results)
	logger.Debug("query %q matched %d chunks", query, len(results))
	return results, nil
}

// ListDocuments returns the stored documents ordered by creation time.
func (ix *Index) ListDocuments() ([]domain.Document, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.ready {
		return nil, ErrNotReady
	}

	docs := make([]domain.Document, 0, len(ix.docs))
	for _, doc := range ix.docs {
		docs = append(docs, doc)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Stats aggregates over the current in-memory state.
func (ix *Index) Stats() (domain.Stats, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.ready {
		return domain.Stats{}, ErrNotReady
	}

	totalChars := 0
	for _, doc := range ix.docs {
		totalChars += len(doc.Content)
	}
	return domain.Stats{
		DocumentCount: len(ix.docs),
		ChunkCount:    len(ix.chunks),
		TotalChars:    totalChars,
	}, nil
}
