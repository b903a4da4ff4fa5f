package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("")
	if len(tokens) != 0 {
		t.Errorf("expected 0 tokens for empty input, got %d: %v", len(tokens), tokens)
	}
}

func TestTokenizer_StopwordAndCaseHandling(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("The Cat sat.")
	for _, token := range tokens {
		if token == "the" {
			t.Errorf("stopword 'the' should be removed, got %v", tokens)
		}
	}

	hasSat := false
	for _, token := range tokens {
		if token == "sat" {
			hasSat = true
		}
	}
	if !hasSat {
		t.Errorf("expected 'sat' to survive lowercased, got %v", tokens)
	}
}

func TestTokenizer_PunctuationRemoval(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("hello, world! (testing)")
	want := []string{"hello", "world", "testing"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizer_ShortTokenRemoval(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("go is my fav language")
	for _, token := range tokens {
		if len(token) <= 2 {
			t.Errorf("token of length <= 2 should be removed: %q", token)
		}
	}
}

func TestTokenizer_DuplicatesRetainedInOrder(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("alpha beta alpha gamma alpha")
	want := []string{"alpha", "beta", "alpha", "gamma", "alpha"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello, World!", "hello  world "},
		{"snake_case", "snake_case"},
		{"a-b", "a b"},
		{"Tabs\tand\nnewlines", "tabs\tand\nnewlines"},
		{"1234!", "1234 "},
	}

	for _, tt := range tests {
		if got := normalize(tt.input); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
