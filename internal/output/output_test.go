// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": JSONL, "jsonl": JSONL, "yaml": YAML, "csl": CSL} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "xml")
}

func TestWriteJSONL_RoundTrip(t *testing.T) {
	a := journalRecord()
	a.Fields[types.FieldAccessDate] = types.DateValue(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	a.Other["ZZ"] = []string{"custom <value>"}
	a.Source = types.Source{File: "refs.ris", Format: "ris", Dialect: "ris", Line: 1}
	b := types.NewRecord()
	b.Fields[types.FieldTitle] = types.TextValue("Second")

	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, []types.Record{a, b}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"pub_year":2020`)
	assert.Contains(t, lines[0], `"access_date":"2024-01-02"`)
	assert.Contains(t, lines[0], `"custom <value>"`)

	got, err := ReadJSONL(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff([]types.Record{a, b}, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSONL_Malformed(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"fields\":{}}\n{not json\n"))
	assert.ErrorContains(t, err, "record 2")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, []types.Record{journalRecord()}))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	fields := decoded[0]["fields"].(map[string]any)
	assert.Equal(t, 2020, fields["pub_year"])
	assert.Equal(t, []any{"Doe, Anne", "Smith, John"}, fields["authors"])

	buf.Reset()
	require.NoError(t, WriteYAML(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_Dispatch(t *testing.T) {
	recs := []types.Record{journalRecord()}
	for _, f := range []Format{JSONL, YAML, CSL} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, recs), f)
		assert.NotEmpty(t, buf.String(), f)
	}
	assert.Error(t, Write(&bytes.Buffer{}, "xml", recs))
}

func TestWriteDiagnostics(t *testing.T) {
	diags := []types.Diagnostic{
		{File: "refs.ris", Line: 3, Tag: "ZZ", Kind: types.DiagUnknownTag, Message: "unknown tag ZZ"},
		{File: "refs.ris", Line: 9, Kind: types.DiagUnparseableLine, Message: "stray text"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDiagnostics(&buf, diags))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, diags[0].String(), lines[0])
}
