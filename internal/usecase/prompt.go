package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"docchat/internal/domain"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

// PromptBuilder renders retrieved context and a question into the user
// prompt sent to the generation endpoint. Context is packed best score
// first under a character budget.
type PromptBuilder struct {
	tmpl         *template.Template
	contextChars int
}

func NewPromptBuilder(contextChars int) (*PromptBuilder, error) {
	content, err := promptTemplates.ReadFile("templates/chat.txt")
	if err != nil {
		return nil, fmt.Errorf("prompt template not found: %w", err)
	}

	tmpl, err := template.New("chat").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &PromptBuilder{tmpl: tmpl, contextChars: contextChars}, nil
}

type promptData struct {
	Question string
	Snippets []domain.RetrievalResult
}

// Build renders the prompt. Results are assumed best-first; a result
// that would blow the character budget is skipped, later ones may
// still fit.
func (b *PromptBuilder) Build(question string, results []domain.RetrievalResult) (string, error) {
	used := 0
	snippets := make([]domain.RetrievalResult, 0, len(results))
	for _, r := range results {
		if b.contextChars > 0 && used+len(r.Content) > b.contextChars {
			continue
		}
		snippets = append(snippets, r)
		used += len(r.Content)
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, promptData{Question: question, Snippets: snippets}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}
