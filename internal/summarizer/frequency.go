// Package summarizer provides local document summarization: a frequency
// based sentence ranker used when no language model is available (or when
// the model call fails), and key-chunk selection for model-backed summaries.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"docchat/internal/normalizer"
)

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// FrequencySummarizer ranks sentences by word frequency (stopwords
// filtered) and keeps the strongest ones in original order.
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{stopwords: defaultStopwords()}
}

// Summarize returns a short summary by ranking sentences on normalized
// token frequency. Text without sentence punctuation comes back trimmed.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		total := 0.0
		toks := s.tokens(sent)
		for _, tok := range toks {
			total += freq[tok]
		}
		// length correction so long sentences do not dominate
		if l := float64(len(toks)); l > 0 {
			total /= math.Sqrt(l)
		}
		scores[i] = pair{i, total}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	var out []string
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	var toks []string
	for _, tok := range normalizer.Tokens(text) {
		if _, ok := s.stopwords[tok]; ok {
			continue
		}
		toks = append(toks, tok)
	}
	return toks
}

// KeyChunks selects up to topK chunks worth feeding a language model as
// summary context, skipping near-empty ones. Document order is preserved.
func KeyChunks(chunks []string, topK int) []string {
	if topK <= 0 {
		topK = 5
	}
	var selected []string
	for _, c := range chunks {
		trimmed := strings.TrimSpace(c)
		if len([]rune(trimmed)) <= 20 {
			continue
		}
		selected = append(selected, trimmed)
		if len(selected) == topK {
			break
		}
	}
	return selected
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
