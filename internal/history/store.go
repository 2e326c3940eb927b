// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history archives completed runs in a SQLite database so past
// reports stay queryable after their cache entries age out.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-radar/pkg/types"
)

const dbFile = "reports.db"

// Store manages the run archive database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at dir/reports.db and
// bootstraps the schema.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_date TEXT PRIMARY KEY,
			paper_count INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_date TEXT NOT NULL REFERENCES runs(run_date),
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT,
			abstract TEXT,
			source TEXT,
			url TEXT,
			score REAL,
			summary TEXT,
			tags TEXT,
			UNIQUE(run_date, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_run_date ON papers(run_date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// Record archives one run's selected papers, replacing any previous
// archive for the same date so forced reruns stay consistent.
func (s *Store) Record(ctx context.Context, date time.Time, papers []types.Paper) error {
	dateStr := date.Format("2006-01-02")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE run_date = ?`, dateStr); err != nil {
		return fmt.Errorf("clearing previous archive: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_date, paper_count, recorded_at) VALUES (?, ?, ?)
		 ON CONFLICT(run_date) DO UPDATE SET
			paper_count=excluded.paper_count, recorded_at=excluded.recorded_at`,
		dateStr, len(papers), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (run_date, id, title, authors, abstract, source, url, score, summary, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		tagsJSON, _ := json.Marshal(p.Tags)
		_, err := stmt.ExecContext(ctx,
			dateStr, p.ID, p.Title, string(authorsJSON), p.Abstract,
			string(p.Source), p.URL, p.Score(), p.Summary, string(tagsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// RunInfo summarizes one archived run.
type RunInfo struct {
	Date       string
	PaperCount int
	RecordedAt string
}

// Runs lists archived runs, most recent first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_date, paper_count, recorded_at FROM runs ORDER BY run_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.Date, &r.PaperCount, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ArchivedPaper is one archived paper with its run date.
type ArchivedPaper struct {
	RunDate string
	Paper   types.Paper
}

// Search runs a full-text query over archived titles and abstracts,
// highest-scoring papers first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]ArchivedPaper, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.run_date, p.id, p.title, p.authors, p.abstract, p.source, p.url, p.score, p.summary, p.tags
		 FROM papers_fts f
		 JOIN papers p ON p.rowid = f.rowid
		 WHERE papers_fts MATCH ?
		 ORDER BY p.score DESC
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var results []ArchivedPaper
	for rows.Next() {
		var (
			ap          ArchivedPaper
			authorsJSON string
			tagsJSON    string
			source      string
			score       float64
		)
		if err := rows.Scan(&ap.RunDate, &ap.Paper.ID, &ap.Paper.Title, &authorsJSON,
			&ap.Paper.Abstract, &source, &ap.Paper.URL, &score, &ap.Paper.Summary, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		ap.Paper.Source = types.Source(source)
		ap.Paper.SetScore(score)
		json.Unmarshal([]byte(authorsJSON), &ap.Paper.Authors)
		json.Unmarshal([]byte(tagsJSON), &ap.Paper.Tags)
		results = append(results, ap)
	}
	return results, rows.Err()
}

// Show returns the archived papers for one run date, highest score first.
func (s *Store) Show(ctx context.Context, date string) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, abstract, source, url, score, summary, tags
		 FROM papers WHERE run_date = ? ORDER BY score DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var (
			p           types.Paper
			authorsJSON string
			tagsJSON    string
			source      string
			score       float64
		)
		if err := rows.Scan(&p.ID, &p.Title, &authorsJSON, &p.Abstract,
			&source, &p.URL, &score, &p.Summary, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		p.Source = types.Source(source)
		p.SetScore(score)
		json.Unmarshal([]byte(authorsJSON), &p.Authors)
		json.Unmarshal([]byte(tagsJSON), &p.Tags)
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
