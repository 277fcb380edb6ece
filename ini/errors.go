// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bytes"
	"fmt"
)

// Kind identifies the reason a Parse or Write call failed. Kind implements
// error, so callers can test for a particular failure with errors.Is:
//
//	if errors.Is(err, ini.KeyTooLong) { ... }
type Kind int

// Failure kinds.
const (
	MissingOpenBracket Kind = 1 + iota
	MissingCloseBracket
	InvalidSectionChar
	SectionTooLong
	InvalidKeyChar
	KeyTooLong
	KeyEmpty
	MalformedEntry
	InvalidValueChar
	ValueTooLong
	InvalidEscapeSequence
	MissingClosingQuote
	BufferFull
	TooManyOptions
)

var kindMessages = [...]string{
	MissingOpenBracket:    "start of section not found",
	MissingCloseBracket:   "end of section not found",
	InvalidSectionChar:    "invalid character in section",
	SectionTooLong:        "section too long",
	InvalidKeyChar:        "invalid character in key",
	KeyTooLong:            "key too long",
	KeyEmpty:              "key missing",
	MalformedEntry:        "could not find '='",
	InvalidValueChar:      "invalid character in value",
	ValueTooLong:          "value too long",
	InvalidEscapeSequence: "invalid escape sequence",
	MissingClosingQuote:   "ending quote not found",
	BufferFull:            "write buffer full",
	TooManyOptions:        "too many options",
}

// Error returns a short description of the failure.
func (k Kind) Error() string {
	if k <= 0 || int(k) >= len(kindMessages) {
		return fmt.Sprintf("ini.Kind(%d)", int(k))
	}
	return kindMessages[k]
}

// String returns the same text as Error.
func (k Kind) String() string {
	return k.Error()
}

// A ParseError describes why Parse rejected its input.
type ParseError struct {
	Kind Kind
	// Offset is the byte offset into the input at which the problem was found.
	Offset int
	// Line and Column are 1-based and derived from Offset.
	Line   int
	Column int
}

func newParseError(text []byte, pos int, kind Kind) *ParseError {
	if pos > len(text) {
		pos = len(text)
	}
	before := text[:pos]
	line := 1 + bytes.Count(before, []byte{'\n'})
	col := 1 + pos - (bytes.LastIndexByte(before, '\n') + 1)
	return &ParseError{
		Kind:   kind,
		Offset: pos,
		Line:   line,
		Column: col,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse ini: line %d, column %d: %v", e.Line, e.Column, e.Kind)
}

// Unwrap returns e.Kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// A WriteError describes why Write stopped.
type WriteError struct {
	Kind Kind
	// Index is the option being emitted when the failure occurred,
	// or -1 if the failure was not tied to a particular option.
	Index int
	// Offset is the number of bytes that had been written to the buffer.
	Offset int
}

func (e *WriteError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("write ini: %v", e.Kind)
	}
	return fmt.Sprintf("write ini: option %d: %v", e.Index, e.Kind)
}

// Unwrap returns e.Kind.
func (e *WriteError) Unwrap() error {
	return e.Kind
}
