package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestNewWindowValidation(t *testing.T) {
	tests := []struct {
		name     string
		maxChars int
		overlap  int
		wantErr  bool
	}{
		{"defaults", DefaultMaxChars, DefaultOverlap, false},
		{"zero overlap", 100, 0, false},
		{"overlap equals max", 100, 100, true},
		{"overlap above max", 100, 150, true},
		{"negative overlap", 100, -1, true},
		{"zero max", 0, 0, true},
		{"negative max", -5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindow(tt.maxChars, tt.overlap)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitBoundaries(t *testing.T) {
	w, err := NewWindow(600, 100)
	require.NoError(t, err)

	// 1000 characters with no internal whitespace so boundaries are exact.
	text := strings.Repeat("abcde", 200)
	chunks := w.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, text[:600], chunks[0])
	assert.Equal(t, text[500:], chunks[1])
	// consecutive chunks share exactly overlap characters
	assert.Equal(t, chunks[0][500:], chunks[1][:100])
}

func TestSplitRuneWindows(t *testing.T) {
	w, err := NewWindow(10, 3)
	require.NoError(t, err)

	// Hangul syllables are multi-byte; windows must count runes.
	text := strings.Repeat("가나다라마", 5) // 25 runes
	chunks := w.Split(text)

	require.Len(t, chunks, 4)
	runes := []rune(text)
	assert.Equal(t, string(runes[:10]), chunks[0])
	assert.Equal(t, string(runes[7:17]), chunks[1])
	assert.Equal(t, string(runes[14:24]), chunks[2])
	assert.Equal(t, string(runes[21:]), chunks[3])
}

func TestSplitShortText(t *testing.T) {
	w, err := NewWindow(600, 100)
	require.NoError(t, err)

	chunks := w.Split("short text")
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestSplitEmpty(t *testing.T) {
	w, err := NewWindow(600, 100)
	require.NoError(t, err)

	assert.Nil(t, w.Split(""))
	assert.Nil(t, w.Split("   \n\t  "))
}

func TestSplitTrimsWindows(t *testing.T) {
	w, err := NewWindow(5, 1)
	require.NoError(t, err)

	chunks := w.Split("  ab cd ef  ")
	for _, c := range chunks {
		assert.Equal(t, strings.TrimSpace(c), c)
		assert.NotEmpty(t, c)
	}
}

func TestSplitDeterministic(t *testing.T) {
	w, err := NewWindow(50, 10)
	require.NoError(t, err)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	first := w.Split(text)
	second := w.Split(text)
	assert.Equal(t, first, second)
}

func TestSplitProgressBound(t *testing.T) {
	w, err := NewWindow(100, 99)
	require.NoError(t, err)

	text := strings.Repeat("x", 1000)
	chunks := w.Split(text)
	// at most ceil(len / (max - overlap)) iterations even at maximal overlap
	assert.LessOrEqual(t, len(chunks), 1000)
	assert.NotEmpty(t, chunks)
}

func TestChunkIndicesContiguous(t *testing.T) {
	w, err := NewWindow(20, 5)
	require.NoError(t, err)

	doc := domain.Document{ID: "doc-1", Content: strings.Repeat("abcd ", 30)}
	chunks, err := w.Chunk(doc)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, "doc-1", c.DocumentID)
		assert.NotEmpty(t, c.Text)
	}
}
