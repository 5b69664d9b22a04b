// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reference-ingest/internal/ingest"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DBDir: filepath.Join(t.TempDir(), "db"), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(typ, title string, year int, authors ...string) types.Record {
	rec := types.NewRecord()
	rec.Fields[types.FieldTypeOfReference] = types.TextValue(typ)
	rec.Fields[types.FieldTitle] = types.TextValue(title)
	if year != 0 {
		rec.Fields[types.FieldPubYear] = types.IntValue(year)
	}
	if len(authors) > 0 {
		rec.Fields[types.FieldAuthors] = types.ListValue(authors)
	}
	return rec
}

func risResult() ingest.FileResult {
	a := record("journal", "Screening automation in systematic reviews", 2020, "Doe, Anne", "Smith, John")
	a.Fields[types.FieldDOI] = types.TextValue("10.1000/xyz")
	a.Other["ZZ"] = []string{"custom"}
	a.Source = types.Source{File: "refs.ris", Format: "ris", Dialect: "ris", Line: 1}
	b := record("whole book", "Über die Müller-Lyer Illusion", 1889, "Müller-Lyer, Franz")
	b.Source = types.Source{File: "refs.ris", Format: "ris", Dialect: "ris", Line: 12}
	return ingest.FileResult{
		Path:     "refs.ris",
		Format:   types.FormatRIS,
		Dialect:  "ris",
		Encoding: "utf-8",
		Records:  []types.Record{a, b},
		Diagnostics: []types.Diagnostic{
			{File: "refs.ris", Line: 5, Tag: "ZZ", Kind: types.DiagUnknownTag, Message: "unknown tag ZZ"},
		},
	}
}

func bibResult() ingest.FileResult {
	c := record("conference paper", "Deep screening", 2021, "Lee, Kim")
	c.Source = types.Source{File: "refs.bib", Format: "bibtex", Line: 1}
	return ingest.FileResult{Path: "refs.bib", Format: types.FormatBibTeX, Encoding: "utf-8", Records: []types.Record{c}}
}

// --- tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	s, err := NewStore(types.StoreConfig{DBDir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	require.NoError(t, err)
	assert.Equal(t, defaultMaxResults, s.maxResults)

	// Reopening an existing database must not fail on the schema.
	s2, err := NewStore(types.StoreConfig{DBDir: dir})
	require.NoError(t, err)
	s2.Close()
}

func TestSaveAndRetrieve(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	imp, err := s.Save(ctx, risResult())
	require.NoError(t, err)
	_, err = uuid.Parse(imp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, imp.Records)
	assert.Equal(t, 1, imp.Diagnostics)

	results, err := s.Retrieve(ctx, QueryOptions{ImportID: imp.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)
	if diff := cmp.Diff(risResult().Records[0], results[0].Record); diff != "" {
		t.Errorf("stored record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, results[1].Position)

	diags, err := s.Diagnostics(ctx, imp.ID)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, risResult().Diagnostics[0], diags[0])
}

func TestSaveRejectsFailedFile(t *testing.T) {
	s := testStore(t)
	res := ingest.FileResult{Path: "bad.ris", Err: types.ErrTruncated}
	_, err := s.Save(context.Background(), res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTruncated))
}

func TestRetrieveFilters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, risResult())
	require.NoError(t, err)
	_, err = s.Save(ctx, bibResult())
	require.NoError(t, err)

	tests := []struct {
		name   string
		opts   QueryOptions
		titles []string
	}{
		{"all", QueryOptions{}, []string{
			"Screening automation in systematic reviews",
			"Über die Müller-Lyer Illusion",
			"Deep screening",
		}},
		{"title case-insensitive", QueryOptions{Title: "SCREENING"}, []string{
			"Screening automation in systematic reviews",
			"Deep screening",
		}},
		{"title accent-insensitive", QueryOptions{Title: "uber die muller"}, []string{"Über die Müller-Lyer Illusion"}},
		{"title wildcard literal", QueryOptions{Title: "100%"}, nil},
		{"type", QueryOptions{Type: "conference paper"}, []string{"Deep screening"}},
		{"year", QueryOptions{Year: 1889}, []string{"Über die Müller-Lyer Illusion"}},
		{"author", QueryOptions{Author: "smith"}, []string{"Screening automation in systematic reviews"}},
		{"doi", QueryOptions{DOI: " 10.1000/XYZ "}, []string{"Screening automation in systematic reviews"}},
		{"combined", QueryOptions{Title: "screening", Year: 2021}, []string{"Deep screening"}},
		{"limit", QueryOptions{MaxResults: 1}, []string{"Screening automation in systematic reviews"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Retrieve(ctx, tt.opts)
			require.NoError(t, err)
			var titles []string
			for _, r := range results {
				titles = append(titles, r.Record.Text(types.FieldTitle))
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{MaxResults: 5}.IsEmpty())
	assert.False(t, QueryOptions{Year: 2020}.IsEmpty())
	assert.False(t, QueryOptions{Author: "x"}.IsEmpty())
}

func TestIngestAndImports(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	results := []ingest.FileResult{
		risResult(),
		{Path: "/tmp/broken.ris", Err: types.ErrNotInRecord},
		bibResult(),
	}

	var out bytes.Buffer
	summary, err := s.Ingest(ctx, results, &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Stored: 2, Failed: 1, Records: 3}, summary)
	assert.Equal(t, 3, summary.Total())
	assert.Contains(t, out.String(), "failed  broken.ris")
	assert.Contains(t, out.String(), "stored: 2, failed: 1, records: 3")

	imports, err := s.Imports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "refs.bib", imports[0].File)
	assert.Equal(t, "ris", imports[1].Dialect)
	assert.False(t, imports[1].ImportedAt.IsZero())

	require.NoError(t, s.Delete(ctx, imports[1].ID))
	left, err := s.Retrieve(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "Deep screening", left[0].Record.Text(types.FieldTitle))

	diags, err := s.Diagnostics(ctx, imports[1].ID)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Error(t, s.Delete(ctx, imports[1].ID))
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, risResult())
	require.NoError(t, err)

	yamlPath, err := s.ExportYAML(ctx, QueryOptions{Year: 2020})
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var yamlEntries []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &yamlEntries))
	require.Len(t, yamlEntries, 1)
	assert.Equal(t, map[string]any{"ZZ": []any{"custom"}}, yamlEntries[0]["other_fields"])

	jsonPath, err := s.ExportJSON(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "export.json"), jsonPath)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var jsonEntries []map[string]any
	require.NoError(t, json.Unmarshal(data, &jsonEntries))
	require.Len(t, jsonEntries, 2)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {"))
	assert.NotContains(t, jsonEntries[1], "other_fields")
	fields := jsonEntries[0]["fields"].(map[string]any)
	assert.Equal(t, float64(2020), fields["pub_year"])
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Müller":          "muller",
		"ÉCOLE Française": "ecole francaise",
		"plain":           "plain",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Fold(in), in)
	}
}
