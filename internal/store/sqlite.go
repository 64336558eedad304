// Package store persists documents, their chunk sets and question history
// in SQLite. A document's chunks are only ever replaced wholesale: partial
// replacement is not supported by design.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"docchat/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	path        TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	uploaded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_index INTEGER NOT NULL,
	content     TEXT NOT NULL,
	PRIMARY KEY (document_id, chunk_index)
);
CREATE TABLE IF NOT EXISTS questions (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	question    TEXT NOT NULL,
	answer      TEXT NOT NULL,
	confidence  INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_questions_document ON questions(document_id, created_at);
`

// SQLite is the database-backed implementation of domain.Store.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for
// an ephemeral store.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// SaveDocument upserts the document and replaces its entire chunk set in
// one transaction. A blank ID gets a fresh one assigned.
func (s *SQLite) SaveDocument(doc domain.Document, chunkTexts []string) (domain.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Document{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO documents (id, title, path, content, uploaded_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, path = excluded.path,
		content = excluded.content, uploaded_at = excluded.uploaded_at`,
		doc.ID, doc.Title, doc.Path, doc.Content, doc.UploadedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return domain.Document{}, fmt.Errorf("save document: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM chunks WHERE document_id = ?`, doc.ID); err != nil {
		return domain.Document{}, fmt.Errorf("clear chunks: %w", err)
	}
	for i, text := range chunkTexts {
		if _, err := tx.Exec(`INSERT INTO chunks (document_id, chunk_index, content) VALUES (?, ?, ?)`,
			doc.ID, i, text); err != nil {
			return domain.Document{}, fmt.Errorf("save chunk %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// Document loads one document by ID.
func (s *SQLite) Document(id string) (domain.Document, error) {
	row := s.db.QueryRow(`SELECT id, title, path, content, uploaded_at FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// Documents lists all documents, most recently uploaded first.
func (s *SQLite) Documents() ([]domain.Document, error) {
	rows, err := s.db.Query(`SELECT id, title, path, content, uploaded_at FROM documents ORDER BY uploaded_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ChunkTexts returns the document's chunk texts ordered by chunk index.
func (s *SQLite) ChunkTexts(documentID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT content FROM chunks WHERE document_id = ? ORDER BY chunk_index`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

// SaveQuestion appends one Q&A record to the document's history.
func (s *SQLite) SaveQuestion(rec domain.QuestionRecord) (domain.QuestionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO questions (id, document_id, question, answer, confidence, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DocumentID, rec.Question, rec.Answer, rec.Confidence, rec.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return domain.QuestionRecord{}, fmt.Errorf("save question: %w", err)
	}
	return rec, nil
}

// History returns the document's question records, newest first.
func (s *SQLite) History(documentID string) ([]domain.QuestionRecord, error) {
	rows, err := s.db.Query(`SELECT id, document_id, question, answer, confidence, created_at
		FROM questions WHERE document_id = ? ORDER BY created_at DESC, rowid DESC`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// Stats aggregates the dashboard view: totals, the five most-questioned
// documents and the ten most recent questions.
func (s *SQLite) Stats() (domain.Stats, error) {
	var stats domain.Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&stats.TotalDocuments); err != nil {
		return domain.Stats{}, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&stats.TotalQuestions); err != nil {
		return domain.Stats{}, err
	}

	rows, err := s.db.Query(`SELECT d.id, d.title, d.path, d.content, d.uploaded_at, COUNT(q.id)
		FROM documents d LEFT JOIN questions q ON q.document_id = d.id
		GROUP BY d.id ORDER BY COUNT(q.id) DESC, d.uploaded_at DESC LIMIT 5`)
	if err != nil {
		return domain.Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			doc      domain.Document
			uploaded string
			count    int
		)
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Path, &doc.Content, &uploaded, &count); err != nil {
			return domain.Stats{}, err
		}
		doc.UploadedAt, _ = time.Parse(time.RFC3339, uploaded)
		stats.TopDocuments = append(stats.TopDocuments, domain.DocumentStat{Document: doc, QuestionCount: count})
	}
	if err := rows.Err(); err != nil {
		return domain.Stats{}, err
	}

	recent, err := s.db.Query(`SELECT id, document_id, question, answer, confidence, created_at
		FROM questions ORDER BY created_at DESC, rowid DESC LIMIT 10`)
	if err != nil {
		return domain.Stats{}, err
	}
	defer recent.Close()
	stats.Recent, err = scanQuestions(recent)
	if err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var (
		doc      domain.Document
		uploaded string
	)
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Path, &doc.Content, &uploaded); err != nil {
		return domain.Document{}, err
	}
	doc.UploadedAt, _ = time.Parse(time.RFC3339, uploaded)
	return doc, nil
}

func scanQuestions(rows *sql.Rows) ([]domain.QuestionRecord, error) {
	var records []domain.QuestionRecord
	for rows.Next() {
		var (
			rec     domain.QuestionRecord
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.Question, &rec.Answer, &rec.Confidence, &created); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		records = append(records, rec)
	}
	return records, rows.Err()
}
