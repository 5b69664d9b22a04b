// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed citation files in a local SQLite database
// and answers filtered queries over the stored records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/segmentio/encoding/json"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/reference-ingest/internal/ingest"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

const (
	dbFile            = "citations.db"
	defaultDir        = "citations"
	defaultMaxResults = 20

	// timeLayout has fixed-width fractions so stored times sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the citation SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the citation database at cfg.DBDir/citations.db
// and creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.DBDir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
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

// Dir returns the directory holding the database and its exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			file TEXT NOT NULL,
			format TEXT NOT NULL,
			dialect TEXT,
			encoding TEXT,
			imported_at TEXT NOT NULL,
			records INTEGER NOT NULL,
			diagnostics INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			type TEXT,
			title TEXT,
			title_folded TEXT,
			pub_year INTEGER,
			doi TEXT,
			authors TEXT,
			record TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_import ON citations(import_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_type ON citations(type)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_year ON citations(pub_year)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_doi ON citations(doi)`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
			line INTEGER,
			tag TEXT,
			kind TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Import describes one stored file.
type Import struct {
	ID          string    `json:"id" yaml:"id"`
	File        string    `json:"file" yaml:"file"`
	Format      string    `json:"format" yaml:"format"`
	Dialect     string    `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Encoding    string    `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	ImportedAt  time.Time `json:"imported_at" yaml:"imported_at"`
	Records     int       `json:"records" yaml:"records"`
	Diagnostics int       `json:"diagnostics" yaml:"diagnostics"`
}

// Save stores the records and diagnostics of one parsed file under a new
// import id. Files that stopped on a fatal error are rejected.
func (s *Store) Save(ctx context.Context, res ingest.FileResult) (Import, error) {
	if res.Err != nil {
		return Import{}, fmt.Errorf("refusing to store %s: %w", res.Path, res.Err)
	}

	imp := Import{
		ID:          uuid.NewString(),
		File:        res.Path,
		Format:      string(res.Format),
		Dialect:     res.Dialect,
		Encoding:    res.Encoding,
		ImportedAt:  time.Now().UTC(),
		Records:     len(res.Records),
		Diagnostics: len(res.Diagnostics),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, file, format, dialect, encoding, imported_at, records, diagnostics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		imp.ID, imp.File, imp.Format, imp.Dialect, imp.Encoding,
		imp.ImportedAt.Format(timeLayout), imp.Records, imp.Diagnostics,
	)
	if err != nil {
		return Import{}, fmt.Errorf("inserting import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (import_id, position, type, title, title_folded, pub_year, doi, authors, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Import{}, fmt.Errorf("preparing citation insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range res.Records {
		recordJSON, err := json.Marshal(rec)
		if err != nil {
			return Import{}, fmt.Errorf("encoding record %d: %w", i+1, err)
		}
		authors := rec.List(types.FieldAuthors)
		if authors == nil {
			authors = []string{}
		}
		authorsJSON, _ := json.Marshal(authors)

		var year sql.NullInt64
		if y, ok := rec.Int(types.FieldPubYear); ok {
			year = sql.NullInt64{Int64: int64(y), Valid: true}
		}
		title := rec.Text(types.FieldTitle)

		_, err = stmt.ExecContext(ctx,
			imp.ID, i, rec.Text(types.FieldTypeOfReference), title, Fold(title),
			year, rec.Text(types.FieldDOI), string(authorsJSON), string(recordJSON),
		)
		if err != nil {
			return Import{}, fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}

	for _, d := range res.Diagnostics {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostics (import_id, line, tag, kind, message) VALUES (?, ?, ?, ?, ?)`,
			imp.ID, d.Line, d.Tag, string(d.Kind), d.Message,
		)
		if err != nil {
			return Import{}, fmt.Errorf("inserting diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("committing import: %w", err)
	}
	return imp, nil
}

// IngestSummary holds counts from storing a batch of parsed files.
type IngestSummary struct {
	Stored  int
	Failed  int
	Records int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Stored + s.Failed
}

// Ingest saves every successfully parsed file, printing a status line per
// file and a summary to w.
func (s *Store) Ingest(ctx context.Context, results []ingest.FileResult, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary
	for _, res := range results {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		base := filepath.Base(res.Path)
		if res.Err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", base, res.Err)
			summary.Failed++
			continue
		}
		imp, err := s.Save(ctx, res)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", base, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "stored  %s as %s (%d records)\n", base, imp.ID, imp.Records)
		summary.Stored++
		summary.Records += imp.Records
	}

	fmt.Fprintf(w, "\nstored: %d, failed: %d, records: %d\n",
		summary.Stored, summary.Failed, summary.Records)
	return summary, nil
}

// Imports lists stored imports, newest first.
func (s *Store) Imports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, format, dialect, encoding, imported_at, records, diagnostics
		 FROM imports ORDER BY imported_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var (
			imp               Import
			dialect, encoding sql.NullString
			importedAt        string
		)
		if err := rows.Scan(&imp.ID, &imp.File, &imp.Format, &dialect, &encoding,
			&importedAt, &imp.Records, &imp.Diagnostics); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		imp.Dialect = dialect.String
		imp.Encoding = encoding.String
		imp.ImportedAt, _ = time.Parse(timeLayout, importedAt)
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// Diagnostics returns the diagnostics stored with an import, in line order.
func (s *Store) Diagnostics(ctx context.Context, importID string) ([]types.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.file, d.line, d.tag, d.kind, d.message
		 FROM diagnostics d JOIN imports i ON i.id = d.import_id
		 WHERE d.import_id = ? ORDER BY d.line, d.rowid`, importID)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []types.Diagnostic
	for rows.Next() {
		var (
			d    types.Diagnostic
			tag  sql.NullString
			kind string
		)
		if err := rows.Scan(&d.File, &d.Line, &tag, &kind, &d.Message); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Tag = tag.String
		d.Kind = types.DiagnosticKind(kind)
		diags = append(diags, d)
	}
	return diags, rows.Err()
}

// Delete removes an import with its citations and diagnostics.
func (s *Store) Delete(ctx context.Context, importID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM imports WHERE id = ?`, importID)
	if err != nil {
		return fmt.Errorf("deleting import: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("import %s not found", importID)
	}
	return nil
}

// Fold returns the accent- and case-insensitive search key for s. Combining
// marks are stripped after canonical decomposition, so "Müller" and "Muller"
// fold to the same key.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
