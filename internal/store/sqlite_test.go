package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveDocumentAssignsID(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.SaveDocument(domain.Document{Title: "manual", Content: "text"}, []string{"text"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.UploadedAt.IsZero())

	loaded, err := s.Document(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "manual", loaded.Title)
	assert.Equal(t, "text", loaded.Content)
}

func TestChunkTextsOrdered(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.SaveDocument(domain.Document{Title: "d", Content: "abc"}, []string{"first", "second", "third"})
	require.NoError(t, err)

	texts, err := s.ChunkTexts(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestReingestReplacesChunksWholesale(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.SaveDocument(domain.Document{Title: "d", Content: "v1"}, []string{"old-0", "old-1", "old-2"})
	require.NoError(t, err)

	doc.Content = "v2"
	_, err = s.SaveDocument(doc, []string{"new-0", "new-1"})
	require.NoError(t, err)

	texts, err := s.ChunkTexts(doc.ID)
	require.NoError(t, err)
	// no partial replacement: all prior chunks invalidated together
	assert.Equal(t, []string{"new-0", "new-1"}, texts)

	loaded, err := s.Document(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", loaded.Content)
}

func TestHistoryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	doc, err := s.SaveDocument(domain.Document{Title: "d", Content: "c"}, []string{"c"})
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"first?", "second?", "third?"} {
		_, err := s.SaveQuestion(domain.QuestionRecord{
			DocumentID: doc.ID,
			Question:   q,
			Answer:     "a",
			Confidence: 40 + i,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	history, err := s.History(doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third?", history[0].Question)
	assert.Equal(t, "first?", history[2].Question)
	assert.Equal(t, 42, history[0].Confidence)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	busy, err := s.SaveDocument(domain.Document{Title: "busy", Content: "c"}, []string{"c"})
	require.NoError(t, err)
	quiet, err := s.SaveDocument(domain.Document{Title: "quiet", Content: "c"}, []string{"c"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.SaveQuestion(domain.QuestionRecord{DocumentID: busy.ID, Question: "q", Answer: "a"})
		require.NoError(t, err)
	}
	_, err = s.SaveQuestion(domain.QuestionRecord{DocumentID: quiet.ID, Question: "q", Answer: "a"})
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 4, stats.TotalQuestions)
	require.NotEmpty(t, stats.TopDocuments)
	assert.Equal(t, "busy", stats.TopDocuments[0].Document.Title)
	assert.Equal(t, 3, stats.TopDocuments[0].QuestionCount)
	assert.Len(t, stats.Recent, 4)
}

func TestDocumentsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	_, err := s.SaveDocument(domain.Document{Title: "old", Content: "c", UploadedAt: older}, nil)
	require.NoError(t, err)
	_, err = s.SaveDocument(domain.Document{Title: "new", Content: "c", UploadedAt: newer}, nil)
	require.NoError(t, err)

	docs, err := s.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].Title)
}
