// Package service orchestrates the document QA flow: ingest files into
// chunked, stored documents; answer questions by hybrid retrieval gated on
// confidence; summarize; expose history and dashboard stats.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"docchat/internal/domain"
	"docchat/internal/extract"
	"docchat/internal/retrieval"
	"docchat/internal/summarizer"
)

// ErrEmptyQuestion is returned by Ask for blank questions.
var ErrEmptyQuestion = errors.New("empty question")

const (
	msgInsufficientEvidence = "The document does not contain enough material related to this question. Try rephrasing it, or ask about a different document."
	msgNoPassages           = "No passage related to this question was found in the document."

	summaryQuestion  = "Summarize the key points of the following document in five lines or fewer, in plain language."
	summaryChunksFed = 5
)

// Searcher is the retrieval port used by the service.
type Searcher interface {
	Search(ctx context.Context, chunkTexts []string, query string, topK int, alpha float64) ([]domain.ScoredChunk, error)
}

// Config carries the retrieval and summary tuning knobs.
type Config struct {
	TopK                int
	Alpha               float64
	ConfidenceThreshold float64
	SummaryMaxSentences int
}

// Answer is the outcome of one Ask call. Text is always user-presentable.
// GenerationErr is set when the language-model call failed and Text holds a
// degraded message; a gate refusal is not a failure and leaves it nil.
type Answer struct {
	Text          string
	Confidence    int
	Answerable    bool
	Sources       []domain.ScoredChunk
	GenerationErr error
}

// QAService wires the collaborators behind the QA operations.
type QAService struct {
	chunker   domain.Chunker
	encoder   domain.Encoder
	generator domain.Generator
	store     domain.Store
	searcher  Searcher
	local     domain.Summarizer
	cfg       Config
	log       *log.Logger
}

// New assembles the service. A nil logger discards output.
func New(chunker domain.Chunker, encoder domain.Encoder, generator domain.Generator, store domain.Store, searcher Searcher, local domain.Summarizer, cfg Config, logger *log.Logger) *QAService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = retrieval.DefaultTopK
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = retrieval.DefaultAlpha
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = retrieval.DefaultThreshold
	}
	return &QAService{
		chunker:   chunker,
		encoder:   encoder,
		generator: generator,
		store:     store,
		searcher:  searcher,
		local:     local,
		cfg:       cfg,
		log:       logger,
	}
}

// IngestFile extracts the file's text and ingests it under its base name.
func (s *QAService) IngestFile(path string) (domain.Document, error) {
	text, err := extract.Text(path)
	if err != nil {
		return domain.Document{}, err
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return s.IngestText(title, path, text)
}

// IngestText chunks the text and stores document plus chunk set. Re-ingest
// of an existing document replaces all of its chunks.
func (s *QAService) IngestText(title, path, text string) (domain.Document, error) {
	doc := domain.Document{Title: title, Path: path, Content: text}
	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return domain.Document{}, fmt.Errorf("chunk %q: %w", title, err)
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	saved, err := s.store.SaveDocument(doc, texts)
	if err != nil {
		return domain.Document{}, err
	}
	s.log.Info("document ingested", "id", saved.ID, "title", title, "chunks", len(texts))
	return saved, nil
}

// Ask answers a question about one document. The retrieval gate decides
// whether the language model is invoked at all; on refusal the fixed
// insufficient-evidence message is returned with the confidence indicator.
// Both outcomes are recorded in history.
func (s *QAService) Ask(ctx context.Context, documentID, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	chunks, err := s.store.ChunkTexts(documentID)
	if err != nil {
		return Answer{}, err
	}
	if len(chunks) == 0 {
		return Answer{Text: msgNoPassages}, nil
	}

	// corpus-scoped encoders (TF-IDF) build their vocabulary from exactly
	// this document's chunk set
	if err := s.encoder.Prepare(chunks); err != nil {
		return Answer{}, fmt.Errorf("prepare encoder: %w", err)
	}
	results, err := s.searcher.Search(ctx, chunks, question, s.cfg.TopK, s.cfg.Alpha)
	if err != nil {
		return Answer{}, err
	}
	if len(results) == 0 {
		return Answer{Text: msgNoPassages}, nil
	}

	verdict := retrieval.Assess(results, s.cfg.ConfidenceThreshold)
	answer := Answer{
		Confidence: verdict.Confidence,
		Answerable: verdict.Answerable,
		Sources:    results,
	}

	if !verdict.Answerable {
		answer.Text = msgInsufficientEvidence
		s.log.Info("question refused", "document", documentID, "confidence", verdict.Confidence)
	} else {
		contexts := make([]string, len(results))
		for i, r := range results {
			contexts[i] = r.Text
		}
		text, genErr := s.generator.Generate(ctx, question, contexts)
		if genErr != nil {
			answer.Text = fmt.Sprintf("Answer generation failed: %v", genErr)
			answer.GenerationErr = genErr
			s.log.Error("generation failed", "document", documentID, "error", genErr)
		} else {
			answer.Text = text
		}
	}

	if _, err := s.store.SaveQuestion(domain.QuestionRecord{
		DocumentID: documentID,
		Question:   question,
		Answer:     answer.Text,
		Confidence: verdict.Confidence,
	}); err != nil {
		return Answer{}, fmt.Errorf("record question: %w", err)
	}
	return answer, nil
}

// Summarize produces a short document summary, preferring the language
// model over the key chunks and degrading to the local frequency
// summarizer when the model call fails.
func (s *QAService) Summarize(ctx context.Context, documentID string) (string, error) {
	doc, err := s.store.Document(documentID)
	if err != nil {
		return "", err
	}
	chunks, err := s.store.ChunkTexts(documentID)
	if err != nil {
		return "", err
	}
	key := summarizer.KeyChunks(chunks, summaryChunksFed)
	if len(key) == 0 {
		return s.local.Summarize(doc.Content, s.cfg.SummaryMaxSentences)
	}
	text, err := s.generator.Generate(ctx, summaryQuestion, key)
	if err != nil {
		s.log.Warn("model summary failed, using local summarizer", "document", documentID, "error", err)
		return s.local.Summarize(doc.Content, s.cfg.SummaryMaxSentences)
	}
	return text, nil
}

// History returns the document's question records, newest first.
func (s *QAService) History(documentID string) ([]domain.QuestionRecord, error) {
	return s.store.History(documentID)
}

// Documents lists all ingested documents.
func (s *QAService) Documents() ([]domain.Document, error) {
	return s.store.Documents()
}

// Stats returns the dashboard aggregates.
func (s *QAService) Stats() (domain.Stats, error) {
	return s.store.Stats()
}
