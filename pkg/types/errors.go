// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Fatal parse conditions. Each aborts the parse of the input it occurs in.
var (
	ErrNoDialect       = errors.New("no known tag dialect matches")
	ErrAlreadyInRecord = errors.New("record start tag while already in a record")
	ErrNotInRecord     = errors.New("tag outside of a record")
	ErrTruncated       = errors.New("input ended inside a record")
	ErrNoEncoding      = errors.New("no candidate encoding could decode the input")
	ErrBadEntry        = errors.New("malformed entry")
)

// ParseError is a fatal error tied to a position in an input file.
type ParseError struct {
	File    string
	Line    int
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	msg := fmt.Sprintf("%s:%d: %v", file, e.Line, e.Err)
	if e.Content != "" {
		msg += fmt.Sprintf(": %q", e.Content)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
