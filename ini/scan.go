// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

// Scanner primitives. Positions are byte offsets into the input text. The end
// of the text and a NUL byte both read as 0, the end-of-input sentinel.

const del = '\x7f'

func at(text []byte, pos int) byte {
	if pos >= len(text) {
		return 0
	}
	return text[pos]
}

func isControl(c byte) bool {
	return c < ' ' || c == del
}

func isPrint(c byte) bool {
	return ' ' <= c && c < del
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9'
}

// skipLeadingWhitespace advances over spaces and control characters on the
// current line. It stops at a newline.
func skipLeadingWhitespace(text []byte, pos int) int {
	for {
		c := at(text, pos)
		if c == 0 || c == '\n' || !(isControl(c) || c == ' ') {
			return pos
		}
		pos++
	}
}

// skipToFirstReadableChar advances over spaces and control characters,
// including newlines.
func skipToFirstReadableChar(text []byte, pos int) int {
	for {
		c := at(text, pos)
		if c == 0 || !(isControl(c) || c == ' ') {
			return pos
		}
		pos++
	}
}

// advanceToNextLine advances past the end of the current line and any blank
// lines that immediately follow it.
func advanceToNextLine(text []byte, pos int) int {
	for c := at(text, pos); c != 0 && c != '\n'; c = at(text, pos) {
		pos++
	}
	for at(text, pos) == '\n' {
		pos++
	}
	return pos
}

// consumeEquals consumes the key/value separator along with the whitespace
// around it.
func consumeEquals(text []byte, pos int) (int, error) {
	pos = skipLeadingWhitespace(text, pos)
	if at(text, pos) != '=' {
		return pos, newParseError(text, pos, MalformedEntry)
	}
	return skipLeadingWhitespace(text, pos+1), nil
}
