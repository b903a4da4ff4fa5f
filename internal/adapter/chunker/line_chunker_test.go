package chunker

import (
	"strings"
	"testing"

	"docchat/internal/adapter/analyzer"
)

func TestLineChunkerSmallContent(t *testing.T) {
	chunker := NewLineChunker(analyzer.NewTokenizer())

	content := "alpha beta gamma\nalpha delta"
	chunks := chunker.Chunk(content, "doc1", "notes.txt", 100, 0)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for content under the size limit, got %d", len(chunks))
	}
	if chunks[0].Content != content {
		t.Errorf("expected chunk content %q, got %q", content, chunks[0].Content)
	}
	if chunks[0].ID != "doc1-chunk-0" {
		t.Errorf("expected deterministic chunk id, got %q", chunks[0].ID)
	}
	if chunks[0].DocName != "notes.txt" {
		t.Errorf("expected doc name carried onto chunk, got %q", chunks[0].DocName)
	}
	if len(chunks[0].Tokens) == 0 {
		t.Error("expected chunk to carry its token sequence")
	}
}

func TestLineChunkerEmptyContent(t *testing.T) {
	chunker := NewLineChunker(analyzer.NewTokenizer())

	chunks := chunker.Chunk("", "doc1", "empty.txt", 100, 10)
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestLineChunkerOversizedLine(t *testing.T) {
	chunker := NewLineChunker(analyzer.NewTokenizer())

	content := strings.Repeat("x", 101)
	chunks := chunker.Chunk(content, "doc1", "long.txt", 100, 10)

	if len(chunks) != 1 {
		t.Fatalf("expected a single oversized line to stay one chunk, got %d", len(chunks))
	}
	if chunks[0].Content != content {
		t.Error("expected chunk to contain the full oversized line unsplit")
	}
}

func TestLineChunkerOrdinalsContiguous(t *testing.T) {
	chunker := NewLineChunker(analyzer.NewTokenizer())

	lines := []string{
		"first line of the document",
		"second line of the document",
		"third line of the document",
		"fourth line of the document",
		"fifth line of the document",
	}
	chunks := chunker.Chunk(strings.Join(lines, "\n"), "doc1", "doc.txt", 40, 0)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Position != i {
			t.Errorf("chunk %d has position %d, want %d", i, chunk.Position, i)
		}
		if chunk.ID != "doc1-chunk-"+string(rune('0'+i)) {
			t.Errorf("chunk %d has id %q", i, chunk.ID)
		}
	}
}

func TestLineChunkerOverlapCarry(t *testing.T) {
	chunker := NewLineChunker(analyzer.NewTokenizer())

	content := "alpha beta gamma delta\nepsilon zeta"
	chunks := chunker.Chunk(content, "doc1", "doc.txt", 22, 10)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	// overlap 10 -> 2 carry words from the closed buffer
	if !strings.HasPrefix(chunks[1].Content, "gamma delta") {
		t.Errorf("expected second chunk to start with carry-over words, got %q", chunks[1].Content)
	}
	if !strings.HasSuffix(chunks[1].Content, "epsilon zeta") {
		t.Errorf("expected second chunk to end with the triggering line, got %q", chunks[1].Content)
	}
}

func TestLineChunkerZeroOverlap(t *testing.T) {
	chunker := NewLineChunker(analyzer.NewTokenizer())

	content := "alpha beta gamma delta\nepsilon zeta"
	chunks := chunker.Chunk(content, "doc1", "doc.txt", 22, 0)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Content != "epsilon zeta" {
		t.Errorf("expected no carry-over with zero overlap, got %q", chunks[1].Content)
	}
}

func TestOverlapCarry(t *testing.T) {
	tests := []struct {
		closed  string
		overlap int
		want    string
	}{
		{"one two three four", 10, "three four"},
		{"one two three four", 0, ""},
		{"one two", 100, "one two"},
		{"single", 5, "single"},
	}

	for _, tt := range tests {
		if got := overlapCarry(tt.closed, tt.overlap); got != tt.want {
			t.Errorf("overlapCarry(%q, %d) = %q, want %q", tt.closed, tt.overlap, got, tt.want)
		}
	}
}
