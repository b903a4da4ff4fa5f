package usecase

import (
	"errors"
	"strings"
	"testing"

	"docchat/internal/adapter/memstore"
	"docchat/internal/domain"
)

type fakeRetriever struct {
	results  []domain.RetrievalResult
	lastTopK int
	lastConv string
}

func (f *fakeRetriever) RetrieveRelevantChunks(query string, topK int, conversationID string) ([]domain.RetrievalResult, error) {
	f.lastTopK = topK
	f.lastConv = conversationID
	return f.results, nil
}

type fakeLLM struct {
	answer      string
	err         error
	lastPrompt  string
	lastHistory []domain.Message
}

func (f *fakeLLM) Generate(systemPrompt, userPrompt string, history []domain.Message) (string, error) {
	f.lastPrompt = userPrompt
	f.lastHistory = history
	return f.answer, f.err
}

func (f *fakeLLM) ModelName() string { return "fake" }

func newTestChat(t *testing.T, retriever *fakeRetriever, llm *fakeLLM) (*Chat, *memstore.MemoryStore) {
	t.Helper()

	prompts, err := NewPromptBuilder(0)
	if err != nil {
		t.Fatal(err)
	}
	st := memstore.NewMemoryStore()
	return NewChat(retriever, llm, st, prompts, 4, 10), st
}

func TestChatAskGroundsPromptInContext(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.RetrievalResult{
		{ChunkID: "c1", DocName: "notes.txt", Content: "alpha is first", Score: 1},
	}}
	llm := &fakeLLM{answer: "alpha comes first"}
	chat, st := newTestChat(t, retriever, llm)

	answer, err := chat.Ask("conv1", "what is alpha?")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "alpha comes first" {
		t.Errorf("answer = %q", answer)
	}
	if retriever.lastConv != "conv1" || retriever.lastTopK != 4 {
		t.Errorf("retriever called with conv=%q topK=%d", retriever.lastConv, retriever.lastTopK)
	}
	if !strings.Contains(llm.lastPrompt, "alpha is first") {
		t.Errorf("prompt missing retrieved context:\n%s", llm.lastPrompt)
	}

	conv, err := st.GetConversation("conv1")
	if err != nil {
		t.Fatal(err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected user+assistant messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != domain.RoleUser || conv.Messages[1].Role != domain.RoleAssistant {
		t.Errorf("unexpected message roles: %+v", conv.Messages)
	}
	if conv.Title != "what is alpha?" {
		t.Errorf("conversation title = %q", conv.Title)
	}
}

func TestChatAskCarriesHistory(t *testing.T) {
	retriever := &fakeRetriever{}
	llm := &fakeLLM{answer: "second answer"}
	chat, _ := newTestChat(t, retriever, llm)

	if _, err := chat.Ask("conv1", "first question"); err != nil {
		t.Fatal(err)
	}
	if _, err := chat.Ask("conv1", "second question"); err != nil {
		t.Fatal(err)
	}

	if len(llm.lastHistory) != 2 {
		t.Fatalf("expected 2 history messages on second turn, got %d", len(llm.lastHistory))
	}
	if llm.lastHistory[0].Content != "first question" {
		t.Errorf("history[0] = %+v", llm.lastHistory[0])
	}
}

type failingConvStore struct {
	*memstore.MemoryStore
	getErr error
}

func (f *failingConvStore) GetConversation(id string) (domain.Conversation, error) {
	if f.getErr != nil {
		return domain.Conversation{}, f.getErr
	}
	return f.MemoryStore.GetConversation(id)
}

func TestChatAskConversationReadFailure(t *testing.T) {
	llm := &fakeLLM{answer: "never sent"}
	prompts, err := NewPromptBuilder(0)
	if err != nil {
		t.Fatal(err)
	}
	st := &failingConvStore{
		MemoryStore: memstore.NewMemoryStore(),
		getErr:      errors.New("disk read failed"),
	}
	chat := NewChat(&fakeRetriever{}, llm, st, prompts, 4, 10)

	if _, err := chat.Ask("conv1", "question"); err == nil {
		t.Fatal("expected store read failure to surface")
	}

	// A failed read must not reach generation or spawn a fresh record
	// that would overwrite existing history on save.
	if llm.lastPrompt != "" {
		t.Error("generation should not run when the conversation cannot be loaded")
	}
	st.getErr = nil
	if _, err := st.GetConversation("conv1"); err == nil {
		t.Error("read failure should not persist a conversation")
	}
}

func TestChatAskGenerationFailure(t *testing.T) {
	retriever := &fakeRetriever{}
	llm := &fakeLLM{err: errors.New("endpoint unreachable")}
	chat, st := newTestChat(t, retriever, llm)

	if _, err := chat.Ask("conv1", "question"); err == nil {
		t.Fatal("expected generation error to surface")
	}

	// A failed turn records no messages.
	if _, err := st.GetConversation("conv1"); err == nil {
		t.Error("failed turn should not persist a conversation")
	}
}
