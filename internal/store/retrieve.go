// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

// QueryOptions holds parameters for citation queries. All filters combine
// with AND semantics.
type QueryOptions struct {
	// Title matches a substring of the title, ignoring case and accents.
	Title string

	// Type filters by reference type label, e.g. "journal".
	Type string

	// Year filters by publication year. Zero means any year.
	Year int

	// Author matches a substring of any author name, ignoring case.
	Author string

	// DOI filters by exact, normalized DOI.
	DOI string

	// ImportID restricts results to one stored file.
	ImportID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Title == "" && q.Type == "" && q.Year == 0 && q.Author == "" &&
		q.DOI == "" && q.ImportID == ""
}

// QueryResult is a stored record with the import it came from.
type QueryResult struct {
	ImportID string       `json:"import_id" yaml:"import_id"`
	Position int          `json:"position" yaml:"position"`
	Record   types.Record `json:"record" yaml:"record"`
}

// Retrieve returns stored records matching opts in the order they were
// stored.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT c.import_id, c.position, c.record
		FROM citations c
		WHERE 1=1`)

	if opts.Title != "" {
		qb.WriteString(` AND c.title_folded LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(Fold(opts.Title))+"%")
	}
	if opts.Type != "" {
		qb.WriteString(` AND c.type = ?`)
		args = append(args, opts.Type)
	}
	if opts.Year != 0 {
		qb.WriteString(` AND c.pub_year = ?`)
		args = append(args, opts.Year)
	}
	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(c.authors) WHERE lower(value) LIKE ? ESCAPE '\')`)
		args = append(args, "%"+escapeLike(strings.ToLower(opts.Author))+"%")
	}
	if opts.DOI != "" {
		qb.WriteString(` AND c.doi = ?`)
		args = append(args, strings.ToLower(strings.TrimSpace(opts.DOI)))
	}
	if opts.ImportID != "" {
		qb.WriteString(` AND c.import_id = ?`)
		args = append(args, opts.ImportID)
	}

	qb.WriteString(` ORDER BY c.rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr         QueryResult
			recordJSON string
		)
		if err := rows.Scan(&qr.ImportID, &qr.Position, &recordJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(recordJSON), &qr.Record); err != nil {
			return nil, fmt.Errorf("decoding record %s/%d: %w", qr.ImportID, qr.Position, err)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
