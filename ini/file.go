// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"io"
)

// A File is a collection of properties in document order. The zero value is an
// empty file. Files can be read by multiple concurrent goroutines.
type File struct {
	entries []Entry
}

// ParseFile reads all of r and parses it as an INI file.
func ParseFile(r io.Reader) (*File, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse ini file: %w", err)
	}
	f := new(File)
	if err := f.UnmarshalText(text); err != nil {
		return nil, err
	}
	return f, nil
}

// Len returns the number of properties in the file.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// Entries returns a copy of the file's properties in document order.
func (f *File) Entries() []Entry {
	if f == nil || len(f.entries) == 0 {
		return nil
	}
	return append([]Entry(nil), f.entries...)
}

// Get returns the last value associated with the given key in the given
// section. Passing an empty section name searches for properties outside
// any section. If there are no values associated with the key, Get returns
// the empty string.
func (f *File) Get(section, key string) string {
	v, _ := f.get(section, key)
	return v
}

// Lookup is like Get, but also reports whether the key was present.
func (f *File) Lookup(section, key string) (string, bool) {
	return f.get(section, key)
}

func (f *File) get(section, key string) (_ string, ok bool) {
	if f == nil {
		return "", false
	}
	for i := len(f.entries) - 1; i >= 0; i-- {
		if e := &f.entries[i]; e.Section == section && e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Find returns all the values associated with the given key in the given
// section. Passing an empty section name searches for properties outside
// any section.
func (f *File) Find(section, key string) []string {
	if f == nil {
		return nil
	}
	var values []string
	for _, e := range f.entries {
		if e.Section == section && e.Key == key {
			values = append(values, e.Value)
		}
	}
	return values
}

// Sections returns the names of sections in a file that have properties set.
// This will include the empty string if there are properties set outside
// a section.
func (f *File) Sections() map[string]struct{} {
	if f == nil {
		return nil
	}
	names := make(map[string]struct{})
	for _, e := range f.entries {
		names[e.Section] = struct{}{}
	}
	return names
}

// HasSections reports whether f has any properties outside the unnamed global
// section.
func (f *File) HasSections() bool {
	if f == nil {
		return false
	}
	for _, e := range f.entries {
		if e.Section != "" {
			return true
		}
	}
	return false
}

// Section returns a copy of the properties in the named section.
// Section("") returns the global section.
func (f *File) Section(name string) Section {
	if f == nil {
		return nil
	}
	var result Section
	for _, e := range f.entries {
		if e.Section != name {
			continue
		}
		if result == nil {
			result = make(Section)
		}
		result[e.Key] = append(result[e.Key], e.Value)
	}
	return result
}

// Set sets the property to the given value. If the section name is empty, the
// property is set outside any section. Set will panic if
// IsValidSection(sectionName), IsValidKey(key), or IsValidValue(value)
// report false.
//
// If the file already had at least one property in the given section with the
// given key, then the last one will be set to value and the properties defined
// earlier in the file will be removed. Otherwise, the property will be appended
// to the end of the file.
func (f *File) Set(sectionName, key, value string) {
	mustBeValid("File.Set", sectionName, key, value)
	last := -1
	for i := len(f.entries) - 1; i >= 0; i-- {
		if e := &f.entries[i]; e.Section == sectionName && e.Key == key {
			last = i
			break
		}
	}
	if last == -1 {
		f.entries = append(f.entries, Entry{Section: sectionName, Key: key, Value: value})
		return
	}
	f.entries[last].Value = value
	n := 0
	for i, e := range f.entries {
		if i < last && e.Section == sectionName && e.Key == key {
			continue
		}
		f.entries[n] = e
		n++
	}
	f.truncate(n)
}

// Delete deletes any property with the given key in the given section.
func (f *File) Delete(sectionName, key string) {
	n := 0
	for _, e := range f.entries {
		if e.Section == sectionName && e.Key == key {
			continue
		}
		f.entries[n] = e
		n++
	}
	f.truncate(n)
}

func (f *File) truncate(n int) {
	for i := n; i < len(f.entries); i++ {
		// Zero out for garbage collection.
		f.entries[i] = Entry{}
	}
	f.entries = f.entries[:n]
}

// Add appends properties with the given key under the given section. If the
// section name is empty, the properties are appended to the global section.
// Add will panic if IsValidSection(sectionName), IsValidKey(key), or
// IsValidValue reports false for any of the values.
func (f *File) Add(sectionName, key string, values []string) {
	for _, v := range values {
		mustBeValid("File.Add", sectionName, key, v)
	}
	for _, v := range values {
		f.entries = append(f.entries, Entry{Section: sectionName, Key: key, Value: v})
	}
}

func mustBeValid(method, sectionName, key, value string) {
	if checkSection(sectionName) != 0 {
		panic(method + " invalid section: " + sectionName)
	}
	if checkKey(key) != 0 {
		panic(method + " invalid key: " + key)
	}
	if checkValue(value) != 0 {
		panic(method + " invalid value: " + value)
	}
}

// MarshalText serializes the file in INI format. Properties are grouped by
// section in the order each section first appears.
func (f *File) MarshalText() ([]byte, error) {
	return new(Writer).marshal(f)
}

// marshal serializes f into a buffer sized for its longest possible encoding.
func (w *Writer) marshal(f *File) ([]byte, error) {
	if f.Len() == 0 {
		return nil, nil
	}
	size := 0
	for _, e := range f.entries {
		// Header plus blank line, in case this entry starts a group.
		size += len("[]\n\n") + len(e.Section)
		size += len(e.Key) + len("=\"\"\n") + 2*len(e.Value)
	}
	buf := make([]byte, size)
	n, err := w.Write(buf, len(f.entries), func(i int) Entry {
		return f.entries[i]
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ini file: %w", err)
	}
	return buf[:n], nil
}

// UnmarshalText parses the INI data, replacing any properties in f.
func (f *File) UnmarshalText(data []byte) error {
	var entries []Entry
	err := Parse(data, func(section, key, value string) {
		entries = append(entries, Entry{Section: section, Key: key, Value: value})
	})
	if err != nil {
		return err
	}
	f.entries = entries
	return nil
}

// A Section is a map of string keys to a list of values.
type Section map[string][]string

// Get returns the last value associated with the given key. If there are no
// values associated with the key, Get returns the empty string.
func (sect Section) Get(key string) string {
	values := sect[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// IsValidSection reports whether a string can be used as a section name.
// The empty string names the global section and is valid.
func IsValidSection(name string) bool {
	return checkSection(name) == 0
}

// IsValidKey reports whether a string can be used as a property key.
func IsValidKey(key string) bool {
	return checkKey(key) == 0
}

// IsValidValue reports whether a string can be stored as a property value
// and read back unchanged.
func IsValidValue(value string) bool {
	return checkValue(value) == 0
}
