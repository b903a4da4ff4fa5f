package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"docchat/internal/domain"
	"docchat/internal/port"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()

	st, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStoreDocumentRoundtrip(t *testing.T) {
	st := newTestStore(t)

	doc := domain.Document{
		ID:         "doc1",
		Name:       "notes.txt",
		Content:    "alpha beta",
		CreatedAt:  time.Unix(0, 1700000000000000000),
		ChunkCount: 2,
		Scope:      domain.ConversationScope("conv1"),
	}
	if err := st.SaveDocument(doc); err != nil {
		t.Fatal(err)
	}

	docs, err := st.GetAllDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	got := docs[0]
	if got.ID != doc.ID || got.Name != doc.Name || got.Content != doc.Content {
		t.Errorf("document fields lost in roundtrip: %+v", got)
	}
	if got.ChunkCount != 2 {
		t.Errorf("chunk count = %d, want 2", got.ChunkCount)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, doc.CreatedAt)
	}
	if got.Scope.IsGlobal() || got.Scope.Conversation != "conv1" {
		t.Errorf("scope = %+v, want conversation conv1", got.Scope)
	}
}

func TestBoltStoreScopeGlobal(t *testing.T) {
	st := newTestStore(t)

	doc := domain.Document{ID: "doc1", Name: "g.txt", Scope: domain.GlobalScope()}
	if err := st.SaveDocument(doc); err != nil {
		t.Fatal(err)
	}

	docs, err := st.GetAllDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if !docs[0].Scope.IsGlobal() {
		t.Errorf("expected global scope after roundtrip, got %+v", docs[0].Scope)
	}
}

func TestBoltStoreScopeConversationNamedGlobal(t *testing.T) {
	st := newTestStore(t)

	doc := domain.Document{ID: "doc1", Name: "g.txt", Scope: domain.ConversationScope("global")}
	if err := st.SaveDocument(doc); err != nil {
		t.Fatal(err)
	}

	docs, err := st.GetAllDocuments()
	if err != nil {
		t.Fatal(err)
	}

	got := docs[0].Scope
	if got.IsGlobal() {
		t.Fatalf("conversation id %q widened to global scope after roundtrip", "global")
	}
	if !got.VisibleTo("global") {
		t.Error("scope should stay visible to its own conversation")
	}
	if got.VisibleTo("other") {
		t.Error("scope leaked to an unrelated conversation")
	}
}

func TestBoltStoreCorruptChunkListSurfaces(t *testing.T) {
	st := newTestStore(t)

	err := st.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocChunks).Put([]byte("doc1"), []byte("{not json"))
	})
	if err != nil {
		t.Fatal(err)
	}

	saveErr := st.SaveChunks([]domain.Chunk{
		{ID: "doc1-chunk-0", DocID: "doc1", DocName: "a.txt", Content: "alpha", Tokens: []string{"alpha"}},
	})
	if saveErr == nil {
		t.Fatal("expected corrupt chunk list to surface as an error")
	}
}

func TestBoltStoreChunksByDoc(t *testing.T) {
	st := newTestStore(t)

	chunks := []domain.Chunk{
		{ID: "doc1-chunk-0", DocID: "doc1", DocName: "a.txt", Content: "alpha", Position: 0, Tokens: []string{"alpha"}},
		{ID: "doc1-chunk-1", DocID: "doc1", DocName: "a.txt", Content: "beta", Position: 1, Tokens: []string{"beta"}},
		{ID: "doc2-chunk-0", DocID: "doc2", DocName: "b.txt", Content: "gamma", Position: 0, Tokens: []string{"gamma"}},
	}
	if err := st.SaveChunks(chunks); err != nil {
		t.Fatal(err)
	}

	all, err := st.GetAllChunks()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(all))
	}

	if err := st.DeleteChunksByDoc("doc1"); err != nil {
		t.Fatal(err)
	}

	all, err = st.GetAllChunks()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 chunk after delete, got %d", len(all))
	}
	if all[0].DocID != "doc2" {
		t.Errorf("surviving chunk belongs to %s, want doc2", all[0].DocID)
	}
}

func TestBoltStoreDeleteChunksByDocMissing(t *testing.T) {
	st := newTestStore(t)

	if err := st.DeleteChunksByDoc("nope"); err != nil {
		t.Errorf("deleting chunks of unknown doc should be a no-op, got %v", err)
	}
}

func TestBoltStoreConversationRoundtrip(t *testing.T) {
	st := newTestStore(t)

	conv := domain.Conversation{
		ID:        "conv1",
		Title:     "chat",
		CreatedAt: time.Unix(0, 1700000000000000000),
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "hello"},
			{Role: domain.RoleAssistant, Content: "hi"},
		},
	}
	if err := st.SaveConversation(conv); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetConversation("conv1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hi" {
		t.Errorf("conversation messages lost in roundtrip: %+v", got.Messages)
	}

	if err := st.DeleteConversation("conv1"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.GetConversation("conv1"); !errors.Is(err, port.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound for deleted conversation, got %v", err)
	}
}
