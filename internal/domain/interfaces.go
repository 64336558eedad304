package domain

import (
	"context"
	"time"
)

// Document is a single uploaded file whose extracted text forms the
// retrieval corpus. Retrieval is always scoped to one document.
type Document struct {
	ID         string
	Title      string
	Path       string
	Content    string
	UploadedAt time.Time
}

// Chunk is an ordered, zero-indexed piece of a document's text, the unit of
// retrieval. Chunks for a document are replaced wholesale on re-ingestion.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
}

// ScoredChunk is one ranked retrieval result. Rank is 1-based, Score the
// fused lexical+semantic score (roughly in [0, 1]), Index the originating
// chunk's position within the document.
type ScoredChunk struct {
	Rank  int
	Score float64
	Index int
	Text  string
}

// QuestionRecord is one answered (or refused) question kept in history.
// Confidence is the top fused score scaled to an integer percentage.
type QuestionRecord struct {
	ID         string
	DocumentID string
	Question   string
	Answer     string
	Confidence int
	CreatedAt  time.Time
}

// Encoder converts batches of free text into fixed-dimension vectors, one
// vector per input in input order. Implementations may require a
// preparation phase over the corpus before encoding.
type Encoder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Chunker splits a document into retrieval chunks.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Generator produces a grounded answer from a question and ordered context
// chunks. Transport and API failures come back as errors, never as answer
// text.
type Generator interface {
	Generate(ctx context.Context, question string, contextChunks []string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Store persists documents, their chunk sets, and question history.
type Store interface {
	SaveDocument(doc Document, chunkTexts []string) (Document, error)
	Document(id string) (Document, error)
	Documents() ([]Document, error)
	ChunkTexts(documentID string) ([]string, error)
	SaveQuestion(rec QuestionRecord) (QuestionRecord, error)
	History(documentID string) ([]QuestionRecord, error)
	Stats() (Stats, error)
}

// DocumentStat pairs a document with how often it has been questioned.
type DocumentStat struct {
	Document      Document
	QuestionCount int
}

// Stats is the aggregate view backing the dashboard surface.
type Stats struct {
	TotalDocuments int
	TotalQuestions int
	TopDocuments   []DocumentStat
	Recent         []QuestionRecord
}
