// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textenc resolves the text encoding of reference exports and opens
// compressed export files.
package textenc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	gzip "github.com/klauspost/pgzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Lookup resolves an encoding name such as "utf-8", "latin1" or
// "windows-1252". Names known to the WHATWG index take precedence over IANA
// names.
func Lookup(name string) (encoding.Encoding, error) {
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}

// isUTF8 reports whether name designates UTF-8.
func isUTF8(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}

// Decode returns data decoded with the first candidate encoding that
// succeeds, together with that candidate's name. UTF-8 is validated
// strictly; any other decode that produces U+FFFD counts as a failure. When
// every candidate fails the error wraps types.ErrNoEncoding.
func Decode(data []byte, candidates []string) (text, used string, err error) {
	if len(candidates) == 0 {
		candidates = types.DefaultEncodings
	}
	for _, name := range candidates {
		if isUTF8(name) {
			b := bytes.TrimPrefix(data, utf8BOM)
			if utf8.Valid(b) {
				return string(b), name, nil
			}
			continue
		}

		enc, err := Lookup(name)
		if err != nil {
			return "", "", err
		}
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if bytes.ContainsRune(out, utf8.RuneError) && !bytes.Contains(data, []byte(string(utf8.RuneError))) {
			continue
		}
		return string(out), name, nil
	}
	return "", "", fmt.Errorf("%w (tried %s)", types.ErrNoEncoding, strings.Join(candidates, ", "))
}

// Open opens path for reading. Files compressed with gzip or zstd, detected
// by their magic bytes, are decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	magic := make([]byte, 4)
	n, _ := io.ReadFull(f, magic)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, []byte{0x1f, 0x8b}):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case bytes.HasPrefix(magic, []byte{0x28, 0xb5, 0x2f, 0xfd}):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []io.Closer{closerFunc(zr.Close), f}}, nil
	default:
		return f, nil
	}
}

// ReadFile reads the whole, possibly compressed, file at path.
func ReadFile(path string) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// StripCompression removes a trailing .gz or .zst extension so the inner
// file name can be used for format sniffing.
func StripCompression(path string) string {
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
