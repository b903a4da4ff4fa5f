package port

import "docchat/internal/domain"

type Chunker interface {
	Chunk(content, docID, docName string, chunkSize, chunkOverlap int) []domain.Chunk
}
