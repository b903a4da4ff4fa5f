package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer normalizes text into a filtered term sequence: lowercase,
// punctuation stripped, short tokens and stopwords dropped. Order and
// duplicates are preserved so term frequency survives downstream.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		stopwords: defaultStopwords(),
	}
}

// Tokenize splits text into tokens. Pure; empty input yields nil.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.Fields(normalize(text))
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// normalize lowercases text and replaces every rune that is neither a
// word character nor whitespace with a space.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return b.String()
}

// defaultStopwords returns the closed set of common English function
// words excluded from tokenization.
func defaultStopwords() map[string]struct{} {
	stops := []string{
		"the", "and", "are", "was", "were", "will", "with", "this",
		"that", "have", "had", "has", "but", "not", "you", "your",
		"for", "from", "they", "their", "she", "her", "his",
		"can", "could", "should", "would", "may", "might", "must",
		"shall", "been", "being", "does", "did", "which", "who",
		"whom", "what", "when", "where", "why", "how", "all",
		"each", "every", "both", "few", "more", "most", "other",
		"some", "such", "than", "too", "very", "just", "also",
		"into", "onto", "over", "under", "about", "after", "before",
		"between", "through", "during", "above", "below", "again",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
