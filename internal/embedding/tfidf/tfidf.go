// Package tfidf provides a local, dependency-free encoder so retrieval
// works without a remote embedding service. Vectors live in vocabulary
// space; cosine similarity over them approximates lexical-semantic overlap.
package tfidf

import (
	"context"
	"errors"
	"math"
	"sort"

	"docchat/internal/normalizer"
)

// Encoder is a TF-IDF vectorizer. Prepare builds the vocabulary and IDF
// table from the document's chunk corpus; Encode then maps any text into
// that space.
type Encoder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// New creates an unprepared TF-IDF encoder.
func New() *Encoder {
	return &Encoder{vocabulary: make(map[string]int)}
}

// Name returns the identifier of this encoder implementation.
func (e *Encoder) Name() string { return "tfidf" }

// Dimension returns the vocabulary size, 0 before Prepare.
func (e *Encoder) Dimension() int { return e.dimension }

// Prepare builds the vocabulary and IDF values from the corpus. Terms are
// ordered lexicographically so the mapping is deterministic.
func (e *Encoder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range normalizer.Tokens(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// smoothed idf keeps every known term's weight positive
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Encode maps each text to an L2-normalized TF-IDF vector. Texts with no
// in-vocabulary tokens produce zero vectors.
func (e *Encoder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf: encoder not prepared")
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, e.dimension)
		for _, tok := range normalizer.Tokens(text) {
			if idx, ok := e.vocabulary[tok]; ok {
				vec[idx] += e.idf[idx]
			}
		}
		normalize(vec)
		out[i] = vec
	}
	return out, nil
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
