package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"docchat/internal/domain"
	"docchat/internal/logger"
	"docchat/internal/port"
)

const systemPrompt = "You are a helpful assistant. Ground your answers in the " +
	"provided document context when it is relevant, and cite the document name."

// Chat orchestrates one question/answer turn: retrieve context scoped
// to the conversation, build the prompt, call the generation endpoint,
// and append both messages to the conversation record.
type Chat struct {
	retriever    port.Retriever
	llm          port.LLM
	convs        port.ConversationStore
	prompts      *PromptBuilder
	topK         int
	historyLimit int
}

func NewChat(
	retriever port.Retriever,
	llm port.LLM,
	convs port.ConversationStore,
	prompts *PromptBuilder,
	topK, historyLimit int,
) *Chat {
	return &Chat{
		retriever:    retriever,
		llm:          llm,
		convs:        convs,
		prompts:      prompts,
		topK:         topK,
		historyLimit: historyLimit,
	}
}

// Ask answers a question within a conversation. An unknown conversation
// id starts a new conversation titled after the question.
func (c *Chat) Ask(conversationID, question string) (string, error) {
	conv, err := c.convs.GetConversation(conversationID)
	switch {
	case errors.Is(err, port.ErrConversationNotFound):
		conv = domain.Conversation{
			ID:        conversationID,
			Title:     title(question),
			CreatedAt: time.Now(),
		}
	case err != nil:
		// A read failure must not spawn a fresh record that would later
		// overwrite the existing history on save.
		return "", fmt.Errorf("failed to load conversation: %w", err)
	}

	results, err := c.retriever.RetrieveRelevantChunks(question, c.topK, conversationID)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	logger.Debug("chat %s: %d context chunks for %q", conversationID, len(results), question)

	prompt, err := c.prompts.Build(question, results)
	if err != nil {
		return "", err
	}

	history := conv.Messages
	if c.historyLimit > 0 && len(history) > c.historyLimit {
		history = history[len(history)-c.historyLimit:]
	}

	answer, err := c.llm.Generate(systemPrompt, prompt, history)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	now := time.Now()
	conv.Messages = append(conv.Messages,
		domain.Message{Role: domain.RoleUser, Content: question, CreatedAt: now},
		domain.Message{Role: domain.RoleAssistant, Content: answer, CreatedAt: now},
	)
	if err := c.convs.SaveConversation(conv); err != nil {
		// The answer was produced; losing history is not worth eating it.
		logger.Warn("failed to persist conversation %s: %v", conversationID, err)
	}

	return answer, nil
}

// title derives a conversation title from its first question.
func title(question string) string {
	question = strings.TrimSpace(question)
	const max = 60
	if len(question) > max {
		return question[:max] + "..."
	}
	return question
}
