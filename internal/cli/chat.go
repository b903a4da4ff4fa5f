package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docchat/internal/adapter/llm"
	"docchat/internal/usecase"
)

var chatConversation string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your documents",
	Long: `Start an interactive chat session. Each question retrieves the most
relevant chunks, grounds the prompt in them, and sends it to the
configured chat endpoint. Type /quit to exit.

The API key is read from the environment variable named by
chat.api_key_env in the config (default OPENAI_API_KEY).`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatConversation, "conversation", "", "resume an existing conversation by id")
}

func runChat(cmd *cobra.Command, args []string) error {
	ix, st, err := openIndex()
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := llm.NewOpenAIClient(cfg.Chat.APIKeyEnv, cfg.Chat.Model, cfg.Chat.BaseURL)
	if err != nil {
		return err
	}

	prompts, err := usecase.NewPromptBuilder(cfg.Chat.ContextChars)
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	chat := usecase.NewChat(ix, client, st, prompts, cfg.Retrieve.TopK, cfg.Chat.HistoryLimit)

	convID := chatConversation
	if convID == "" {
		convID = uuid.New().String()
	}

	fmt.Printf("Chatting with %s (conversation %s). Type /quit to exit.\n\n", client.ModelName(), convID)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "/quit" || question == "/exit" {
			break
		}

		answer, err := chat.Ask(convID, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", answer)
	}

	return scanner.Err()
}
