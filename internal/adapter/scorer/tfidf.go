package scorer

import (
	"math"

	"docchat/internal/domain"
)

// TFIDF computes lexical relevance between a query and a chunk using
// frequency statistics over the full chunk corpus. Statistics are
// computed fresh per query; nothing is persisted.
type TFIDF struct{}

func NewTFIDF() *TFIDF {
	return &TFIDF{}
}

// Score computes the relevance of chunkTokens to queryTokens against
// the given corpus. The loop runs over the raw query sequence, so a
// query token that repeats contributes its tf*idf once per occurrence.
// idf = ln(N/(df+1)) is smoothed in the denominator only and may go
// negative for very common terms; the sign is preserved.
func (s *TFIDF) Score(queryTokens, chunkTokens []string, corpus []domain.Chunk) float64 {
	df := s.DocFrequencies(queryTokens, corpus)
	return s.ScoreWithStats(queryTokens, chunkTokens, df, len(corpus))
}

// ScoreWithStats scores a single chunk given precomputed document
// frequencies, so ranking a whole corpus pays for one statistics pass.
func (s *TFIDF) ScoreWithStats(queryTokens, chunkTokens []string, df map[string]int, corpusSize int) float64 {
	if len(queryTokens) == 0 || len(chunkTokens) == 0 {
		return 0
	}

	counts := make(map[string]int, len(chunkTokens))
	for _, token := range chunkTokens {
		counts[token]++
	}

	total := 0.0
	for _, term := range queryTokens {
		count, ok := counts[term]
		if !ok {
			continue
		}
		tf := float64(count) / float64(len(chunkTokens))
		idf := math.Log(float64(corpusSize) / float64(df[term]+1))
		total += tf * idf
	}

	return total / math.Sqrt(float64(len(queryTokens)))
}

// DocFrequencies counts, for each distinct query term, the number of
// corpus chunks containing it at least once.
func (s *TFIDF) DocFrequencies(queryTokens []string, corpus []domain.Chunk) map[string]int {
	terms := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		terms[t] = struct{}{}
	}

	df := make(map[string]int, len(terms))
	for _, chunk := range corpus {
		seen := make(map[string]struct{})
		for _, token := range chunk.Tokens {
			if _, wanted := terms[token]; !wanted {
				continue
			}
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	return df
}
