// Package retrieval fuses lexical (BM25) and semantic (embedding cosine)
// relevance into one ranked, confidence-scored result set over a single
// document's chunks. It performs no I/O beyond the injected encoder and
// never logs; every call works on its own freshly computed score vectors.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"docchat/internal/bm25"
	"docchat/internal/domain"
)

const (
	DefaultTopK  = 5
	DefaultAlpha = 0.6

	// score vectors whose spread falls below this are treated as uniform
	degenerateEps = 1e-9
	// guards cosine similarity against all-zero embeddings
	normEps = 1e-10
)

// Searcher ranks chunks by fused BM25 + cosine-similarity relevance.
type Searcher struct {
	encoder domain.Encoder
}

// NewSearcher wires the embedding collaborator into a searcher.
func NewSearcher(encoder domain.Encoder) *Searcher {
	return &Searcher{encoder: encoder}
}

// Search scores every chunk against the query and returns the top-k chunks
// in descending fused-score order with 1-based ranks. Alpha in [0,1] weights
// semantic against lexical relevance; a negative alpha selects DefaultAlpha
// and topK <= 0 selects DefaultTopK. An empty chunk set or blank query
// short-circuits to an empty result without touching the encoder. Encoder
// failures abort the call.
func (s *Searcher) Search(ctx context.Context, chunkTexts []string, query string, topK int, alpha float64) ([]domain.ScoredChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" || len(chunkTexts) == 0 {
		return nil, nil
	}

	if topK <= 0 {
		topK = DefaultTopK
	}
	if alpha < 0 {
		alpha = DefaultAlpha
	} else if alpha > 1 {
		alpha = 1
	}

	lexical := bm25.ScoreTexts(query, chunkTexts)

	semantic, err := s.semanticScores(ctx, chunkTexts, query)
	if err != nil {
		return nil, err
	}

	lexNorm := minMaxNormalize(lexical)
	semNorm := minMaxNormalize(semantic)

	fused := make([]float64, len(chunkTexts))
	for i := range fused {
		fused[i] = alpha*semNorm[i] + (1-alpha)*lexNorm[i]
	}

	order := rankIndices(fused)
	if topK > len(order) {
		topK = len(order)
	}
	results := make([]domain.ScoredChunk, 0, topK)
	for rank, idx := range order[:topK] {
		results = append(results, domain.ScoredChunk{
			Rank:  rank + 1,
			Score: fused[idx],
			Index: idx,
			Text:  chunkTexts[idx],
		})
	}
	return results, nil
}

// semanticScores batch-embeds all chunks plus the query and computes the
// cosine similarity of each chunk vector against the query vector.
func (s *Searcher) semanticScores(ctx context.Context, chunkTexts []string, query string) ([]float64, error) {
	chunkVecs, err := s.encoder.Encode(ctx, chunkTexts)
	if err != nil {
		return nil, fmt.Errorf("encode chunks: %w", err)
	}
	if len(chunkVecs) != len(chunkTexts) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d chunks", len(chunkVecs), len(chunkTexts))
	}
	queryVecs, err := s.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	if len(queryVecs) != 1 {
		return nil, fmt.Errorf("encoder returned %d vectors for the query", len(queryVecs))
	}
	queryVec := queryVecs[0]

	scores := make([]float64, len(chunkVecs))
	for i, vec := range chunkVecs {
		if len(vec) != len(queryVec) {
			return nil, fmt.Errorf("embedding dimension mismatch: chunk %d has %d, query has %d", i, len(vec), len(queryVec))
		}
		scores[i] = cosine(vec, queryVec)
	}
	return scores, nil
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / ((math.Sqrt(na) + normEps) * (math.Sqrt(nb) + normEps))
}

// minMaxNormalize rescales scores to [0,1]. A vector with no spread maps to
// all ones: a uniformly-scored corpus is uniformly relevant, not NaN.
func minMaxNormalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	lo, hi := scores[0], scores[0]
	for _, v := range scores[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi-lo < degenerateEps {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for i, v := range scores {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// rankIndices orders chunk indices by score descending, ties broken by
// original chunk index ascending so repeated runs rank identically.
func rankIndices(scores []float64) []int {
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		if scores[idxs[a]] != scores[idxs[b]] {
			return scores[idxs[a]] > scores[idxs[b]]
		}
		return idxs[a] < idxs[b]
	})
	return idxs
}
