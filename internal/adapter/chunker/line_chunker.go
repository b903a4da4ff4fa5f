package chunker

import (
	"strings"
	"time"

	"docchat/internal/adapter/analyzer"
	"docchat/internal/domain"
)

// LineChunker splits document text into overlapping chunks bounded by a
// raw character size. Splitting is line-based: a line is never broken
// mid-way, so a single oversized line becomes its own chunk. Overlap is
// approximate, carrying the last floor(overlap/5) words of the closed
// buffer into the next one (~5 characters per word).
type LineChunker struct {
	tokenizer *analyzer.Tokenizer
}

func NewLineChunker(tokenizer *analyzer.Tokenizer) *LineChunker {
	return &LineChunker{tokenizer: tokenizer}
}

// Chunk splits content for the given document. Size and overlap are read
// per call, not frozen per document. Empty content produces no chunks.
func (c *LineChunker) Chunk(content, docID, docName string, chunkSize, chunkOverlap int) []domain.Chunk {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")

	var chunks []domain.Chunk
	buf := ""

	for _, line := range lines {
		if buf != "" && len(buf)+1+len(line) > chunkSize {
			if chunk, ok := c.close(buf, docID, docName, len(chunks)); ok {
				chunks = append(chunks, chunk)
			}
			if carry := overlapCarry(buf, chunkOverlap); carry != "" {
				buf = carry + "\n" + line
			} else {
				buf = line
			}
			continue
		}

		if buf == "" {
			buf = line
		} else {
			buf += "\n" + line
		}
	}

	if chunk, ok := c.close(buf, docID, docName, len(chunks)); ok {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// close trims and tokenizes the buffer into a chunk at the given
// ordinal. Buffers that trim to nothing are dropped so ordinals stay
// contiguous.
func (c *LineChunker) close(buf, docID, docName string, position int) (domain.Chunk, bool) {
	text := strings.TrimSpace(buf)
	if text == "" {
		return domain.Chunk{}, false
	}

	return domain.Chunk{
		ID:        domain.ChunkID(docID, position),
		DocID:     docID,
		DocName:   docName,
		Content:   text,
		Position:  position,
		Tokens:    c.tokenizer.Tokenize(text),
		CreatedAt: time.Now(),
	}, true
}

// overlapCarry returns the tail of the closed buffer to seed the next
// one: the last floor(overlap/5) space-separated words.
func overlapCarry(closed string, overlap int) string {
	n := overlap / 5
	if n <= 0 {
		return ""
	}

	words := strings.Split(closed, " ")
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
