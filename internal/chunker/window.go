// Package chunker splits document text into overlapping fixed-size
// character windows. Window positions are rune offsets, not bytes, so
// multi-byte scripts chunk the same way as ASCII.
package chunker

import (
	"fmt"
	"strings"

	"docchat/internal/domain"
)

const (
	DefaultMaxChars = 600
	DefaultOverlap  = 100
)

// Window is a character-window chunker. Consecutive chunks share exactly
// `overlap` characters while more text remains; the final chunk may be
// shorter. Output is deterministic for identical input and parameters.
type Window struct {
	maxChars int
	overlap  int
}

// NewWindow validates the window parameters. Overlap must stay below
// maxChars or the walk would never advance.
func NewWindow(maxChars, overlap int) (*Window, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunker: max_chars must be positive, got %d", maxChars)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap cannot be negative, got %d", overlap)
	}
	if overlap >= maxChars {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than max_chars %d", overlap, maxChars)
	}
	return &Window{maxChars: maxChars, overlap: overlap}, nil
}

// Split walks text left to right in windows of maxChars runes and returns
// the trimmed, non-empty windows in order. Surrounding whitespace is
// trimmed first; empty input yields no chunks.
func (w *Window) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + w.maxChars
		if end > n {
			end = n
		}
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, piece)
		}
		if end == n {
			break
		}
		// next window starts overlap runes before the current end
		start = end - w.overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// Chunk splits a document's content into indexed chunks.
func (w *Window) Chunk(document domain.Document) ([]domain.Chunk, error) {
	texts := w.Split(document.Content)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Index:      i,
			Text:       text,
		})
	}
	return chunks, nil
}
