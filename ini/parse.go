// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

// Maximum lengths in bytes of the fields of an Entry. The value length is
// measured after escape sequences are decoded.
const (
	MaxSectionLen = 31
	MaxKeyLen     = 31
	MaxValueLen   = 63
)

// An EntryFunc receives one property from Parse. section is the name of the
// nearest preceding section header, or the empty string if there is none.
type EntryFunc func(section, key, value string)

// Parse parses INI text, calling fn once per property in document order.
// Parsing stops at the end of text or at the first NUL byte. The first
// malformed line aborts the whole parse; the returned error is then a
// *ParseError. Properties before the failing line have already been passed
// to fn.
//
// See the Syntax section in the package documentation for the format
// recognized by Parse.
func Parse(text []byte, fn EntryFunc) error {
	if fn == nil {
		panic("ini.Parse(..., nil)")
	}
	section := ""
	pos := 0
	for {
		pos = skipToFirstReadableChar(text, pos)
		switch at(text, pos) {
		case 0:
			return nil
		case '[':
			var err error
			pos, section, err = parseSection(text, pos)
			if err != nil {
				return err
			}
		case ';':
			pos = advanceToNextLine(text, pos)
		default:
			var key, value string
			var err error
			pos, key, err = parseKey(text, pos)
			if err != nil {
				return err
			}
			pos, err = consumeEquals(text, pos)
			if err != nil {
				return err
			}
			pos, value, err = parseValue(text, pos)
			if err != nil {
				return err
			}
			fn(section, key, value)
		}
	}
}

func isSectionChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == ' '
}

func isKeyChar(c byte) bool {
	return isAlnum(c) || c == '.' || c == '-' || c == '_'
}

func parseSection(text []byte, pos int) (_ int, name string, _ error) {
	if at(text, pos) != '[' {
		return pos, "", newParseError(text, pos, MissingOpenBracket)
	}
	pos++
	var buf [MaxSectionLen]byte
	n := 0
	for c := at(text, pos); c != 0 && c != ']'; c = at(text, pos) {
		if !isSectionChar(c) {
			return pos, "", newParseError(text, pos, InvalidSectionChar)
		}
		if n >= len(buf) {
			return pos, "", newParseError(text, pos, SectionTooLong)
		}
		buf[n] = c
		n++
		pos++
	}
	if at(text, pos) != ']' {
		return pos, "", newParseError(text, pos, MissingCloseBracket)
	}
	return pos + 1, string(buf[:n]), nil
}

func parseKey(text []byte, pos int) (_ int, key string, _ error) {
	var buf [MaxKeyLen]byte
	n := 0
	for c := at(text, pos); c != 0 && c != ' ' && c != '='; c = at(text, pos) {
		if !isKeyChar(c) {
			return pos, "", newParseError(text, pos, InvalidKeyChar)
		}
		if n >= len(buf) {
			return pos, "", newParseError(text, pos, KeyTooLong)
		}
		buf[n] = c
		n++
		pos++
	}
	if n == 0 {
		return pos, "", newParseError(text, pos, KeyEmpty)
	}
	return pos, string(buf[:n]), nil
}

func parseValue(text []byte, pos int) (_ int, value string, _ error) {
	if at(text, pos) == '"' {
		return parseQuotedValue(text, pos)
	}
	return parseUnquotedValue(text, pos)
}

func endsValue(c byte) bool {
	return c == 0 || c == '\n' || c == '\r' || c == ';'
}

func parseUnquotedValue(text []byte, pos int) (_ int, value string, _ error) {
	var buf [MaxValueLen]byte
	n := 0
	for c := at(text, pos); !endsValue(c); c = at(text, pos) {
		if !isPrint(c) && c != '\t' {
			return pos, "", newParseError(text, pos, InvalidValueChar)
		}
		if n >= len(buf) {
			return pos, "", newParseError(text, pos, ValueTooLong)
		}
		buf[n] = c
		n++
		pos++
	}
	for n > 0 && buf[n-1] == ' ' {
		n--
	}
	return pos, string(buf[:n]), nil
}

func parseQuotedValue(text []byte, pos int) (_ int, value string, _ error) {
	if at(text, pos) != '"' {
		return pos, "", newParseError(text, pos, MissingClosingQuote)
	}
	pos++
	var buf [MaxValueLen]byte
	n := 0
	for c := at(text, pos); !endsValue(c) && c != '"'; c = at(text, pos) {
		start := pos
		if c == '\\' {
			var ok bool
			c, ok = unescape(at(text, pos+1))
			if !ok {
				return pos, "", newParseError(text, pos, InvalidEscapeSequence)
			}
			pos += 2
		} else {
			if !isPrint(c) && c != '\t' {
				return pos, "", newParseError(text, pos, InvalidValueChar)
			}
			pos++
		}
		if n >= len(buf) {
			return start, "", newParseError(text, start, ValueTooLong)
		}
		buf[n] = c
		n++
	}
	if at(text, pos) != '"' {
		return pos, "", newParseError(text, pos, MissingClosingQuote)
	}
	return pos + 1, string(buf[:n]), nil
}

// unescape maps the character following a backslash to the byte it denotes.
func unescape(c byte) (byte, bool) {
	switch c {
	case '"', '\\':
		return c, true
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	default:
		return 0, false
	}
}
