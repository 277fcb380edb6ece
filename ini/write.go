// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import "strings"

// An Entry is a single property: a key and value in a section.
type Entry struct {
	Section string
	Key     string
	Value   string
}

// A FetchFunc returns the i'th option to write. It must return the same Entry
// for the same index for the duration of a Write call, since Write asks for
// each index more than once.
type FetchFunc func(i int) Entry

// A Writer serializes options to INI text. The zero value has no limit on the
// number of options.
type Writer struct {
	// MaxOptions is the largest option count Write accepts.
	// Zero means no limit.
	MaxOptions int
}

// Write is a shorthand for a zero Writer's Write method.
func Write(buf []byte, n int, fetch FetchFunc) (int, error) {
	return new(Writer).Write(buf, n, fetch)
}

// Write serializes the options fetch(0) through fetch(n-1) into buf, returning
// the number of bytes written. Options that share a section are grouped under
// a single section header, and sections appear in the order of their first
// option. Each group is followed by a blank line.
//
// If an option cannot be represented in the format or buf is too small, Write
// stops and returns a *WriteError along with the number of bytes written up to
// that point. A line that does not fit is not written at all.
func (w *Writer) Write(buf []byte, n int, fetch FetchFunc) (int, error) {
	if n < 0 {
		panic("ini.Writer.Write(..., <negative option count>, ...)")
	}
	if fetch == nil {
		panic("ini.Writer.Write(..., nil)")
	}
	out := &emitter{buf: buf}
	if w.MaxOptions > 0 && n > w.MaxOptions {
		return 0, &WriteError{Kind: TooManyOptions, Index: -1}
	}
	written := make([]bool, n)
	for {
		first := -1
		for i := range written {
			if !written[i] {
				first = i
				break
			}
		}
		if first == -1 {
			return out.n, nil
		}
		target := fetch(first).Section
		if k := checkSection(target); k != 0 {
			return out.n, &WriteError{Kind: k, Index: first, Offset: out.n}
		}
		// The header is emitted with the first matching option, so a pass
		// that marks nothing leaves the buffer untouched and ends the write.
		marked := 0
		var line [lineCap]byte
		for i := range written {
			if written[i] {
				continue
			}
			e := fetch(i)
			if e.Section != target {
				continue
			}
			if k := checkEntry(e); k != 0 {
				return out.n, &WriteError{Kind: k, Index: i, Offset: out.n}
			}
			if marked == 0 && !out.put(appendSection(line[:0], target)) {
				return out.n, &WriteError{Kind: BufferFull, Index: i, Offset: out.n}
			}
			if !out.put(appendProperty(line[:0], e.Key, e.Value)) {
				return out.n, &WriteError{Kind: BufferFull, Index: i, Offset: out.n}
			}
			written[i] = true
			marked++
		}
		if marked == 0 {
			return out.n, nil
		}
		if !out.put(newline) {
			return out.n, &WriteError{Kind: BufferFull, Index: -1, Offset: out.n}
		}
	}
}

// lineCap is the longest line Write produces: a maximal key, '=', a maximal
// value with every byte escaped and surrounded by quotes, and a newline.
const lineCap = MaxKeyLen + 1 + 2*MaxValueLen + 2 + 1

var newline = []byte{'\n'}

type emitter struct {
	buf []byte
	n   int
}

// put copies p to the buffer. If p does not fit, put writes nothing and
// reports false.
func (out *emitter) put(p []byte) bool {
	if len(p) > len(out.buf)-out.n {
		return false
	}
	out.n += copy(out.buf[out.n:], p)
	return true
}

func appendSection(dst []byte, name string) []byte {
	dst = append(dst, '[')
	dst = append(dst, name...)
	dst = append(dst, "]\n"...)
	return dst
}

func appendProperty(dst []byte, key, value string) []byte {
	dst = append(dst, key...)
	dst = append(dst, '=')
	if shouldQuoteValue(value) {
		dst = appendQuotedString(dst, value)
	} else {
		dst = append(dst, value...)
	}
	dst = append(dst, '\n')
	return dst
}

func appendQuotedString(dst []byte, v string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\\', '"':
			dst = append(dst, '\\', c)
		default:
			dst = append(dst, c)
		}
	}
	dst = append(dst, '"')
	return dst
}

// shouldQuoteValue reports whether v would be read back differently if it were
// written without quotes.
func shouldQuoteValue(v string) bool {
	if v == "" {
		return false
	}
	switch v[0] {
	case ' ', '\t', '"':
		return true
	}
	return v[len(v)-1] == ' ' || strings.IndexByte(v, '\n') >= 0
}

// checkSection returns the Kind that Parse would report for a section header
// with the given name, or zero if the name is acceptable.
func checkSection(name string) Kind {
	for i := 0; i < len(name); i++ {
		if !isSectionChar(name[i]) {
			return InvalidSectionChar
		}
		if i >= MaxSectionLen {
			return SectionTooLong
		}
	}
	return 0
}

func checkKey(key string) Kind {
	if key == "" {
		return KeyEmpty
	}
	for i := 0; i < len(key); i++ {
		if !isKeyChar(key[i]) {
			return InvalidKeyChar
		}
		if i >= MaxKeyLen {
			return KeyTooLong
		}
	}
	return 0
}

// checkValue returns zero if v can be written such that Parse reads back v
// exactly, or the Kind describing why it cannot.
func checkValue(v string) Kind {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == ';' || !(isPrint(c) || c == '\t' || c == '\n') {
			return InvalidValueChar
		}
		if i >= MaxValueLen {
			return ValueTooLong
		}
	}
	return 0
}

func checkEntry(e Entry) Kind {
	if k := checkSection(e.Section); k != 0 {
		return k
	}
	if k := checkKey(e.Key); k != 0 {
		return k
	}
	return checkValue(e.Value)
}
