// Package bm25 scores lexical relevance with the Okapi BM25 ranking
// function. The corpus is always one document's chunk set; tokenization is
// plain whitespace splitting applied identically to query and chunks.
package bm25

import (
	"math"
	"strings"
)

const (
	// K1 is the term frequency saturation parameter.
	K1 = 1.5
	// B is the document length normalization parameter.
	B = 0.75
)

// Scorer holds the corpus statistics for one chunk set.
type Scorer struct {
	termFreqs []map[string]int
	docFreq   map[string]int
	docLen    []int
	avgLen    float64
}

// NewScorer indexes the given pre-tokenized documents.
func NewScorer(docs [][]string) *Scorer {
	s := &Scorer{
		termFreqs: make([]map[string]int, len(docs)),
		docFreq:   make(map[string]int),
		docLen:    make([]int, len(docs)),
	}
	total := 0
	for i, tokens := range docs {
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for term := range tf {
			s.docFreq[term]++
		}
		s.termFreqs[i] = tf
		s.docLen[i] = len(tokens)
		total += len(tokens)
	}
	if len(docs) > 0 {
		s.avgLen = float64(total) / float64(len(docs))
	}
	return s
}

// Scores computes one raw BM25 score per indexed document for the query
// tokens, aligned by document position. Scores are unbounded; the idf term
// goes negative for terms present in most documents.
func (s *Scorer) Scores(query []string) []float64 {
	scores := make([]float64, len(s.termFreqs))
	if len(query) == 0 {
		return scores
	}
	n := float64(len(s.termFreqs))
	for _, term := range query {
		df, ok := s.docFreq[term]
		if !ok {
			continue
		}
		idf := math.Log((n - float64(df) + 0.5) / (float64(df) + 0.5))
		for i, tf := range s.termFreqs {
			freq := float64(tf[term])
			if freq == 0 {
				continue
			}
			norm := 1 - B + B*float64(s.docLen[i])/s.avgLen
			scores[i] += idf * (freq * (K1 + 1)) / (freq + K1*norm)
		}
	}
	return scores
}

// ScoreTexts is the convenience path used by retrieval: whitespace-split
// the query and every chunk, index, and score in one call. An empty chunk
// set yields an empty vector.
func ScoreTexts(query string, chunkTexts []string) []float64 {
	if len(chunkTexts) == 0 {
		return nil
	}
	docs := make([][]string, len(chunkTexts))
	for i, text := range chunkTexts {
		docs[i] = strings.Fields(text)
	}
	return NewScorer(docs).Scores(strings.Fields(query))
}
