// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// FileSet is a list of files to obtain configuration from in descending order
// of precedence. Elements may be nil, which behave like empty files.
type FileSet []*File

// ParseFiles parses the files at the given paths in fsys as INI and returns a
// FileSet. If the returned error is nil, the returned file set's length will be
// the same as the number of arguments. ParseFiles will stop on the first error,
// but ignores missing file errors, instead filling the corresponding element of
// the set with a nil *File.
func ParseFiles(fsys afero.Fs, paths ...string) (FileSet, error) {
	fset := make(FileSet, 0, len(paths))
	for _, p := range paths {
		f, err := openFile(fsys, p)
		if errors.Is(err, os.ErrNotExist) {
			fset = append(fset, nil)
			continue
		}
		if err != nil {
			return fset, fmt.Errorf("parse ini files: %w", err)
		}
		fset = append(fset, f)
	}
	return fset, nil
}

func openFile(fsys afero.Fs, path string) (*File, error) {
	r, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	f, err := ParseFile(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile serializes f and writes it to the named file in fsys, creating it
// if necessary.
func WriteFile(fsys afero.Fs, path string, f *File) error {
	return new(Writer).WriteFile(fsys, path, f)
}

// WriteFile serializes f with w and writes it to the named file in fsys,
// creating it if necessary. The file is not touched if f cannot be serialized.
func (w *Writer) WriteFile(fsys afero.Fs, path string, f *File) error {
	text, err := w.marshal(f)
	if err != nil {
		return fmt.Errorf("write ini file %s: %w", path, err)
	}
	if err := afero.WriteFile(fsys, path, text, 0o644); err != nil {
		return fmt.Errorf("write ini file: %w", err)
	}
	return nil
}

// Get returns the value from the first file in the set that has the key.
// If no file has the key, Get returns the empty string.
func (fset FileSet) Get(section, key string) string {
	v, _ := fset.Lookup(section, key)
	return v
}

// Lookup is like Get, but also reports whether any file had the key.
func (fset FileSet) Lookup(section, key string) (string, bool) {
	for _, f := range fset {
		if v, ok := f.get(section, key); ok {
			return v, true
		}
	}
	return "", false
}

// Find returns every value of the key across the set, lowest precedence first,
// so the value Get would return comes last.
func (fset FileSet) Find(section, key string) []string {
	var values []string
	for i := len(fset) - 1; i >= 0; i-- {
		values = append(values, fset[i].Find(section, key)...)
	}
	return values
}

// Sections returns the names of sections that have properties set in any file.
// The empty string is included if any file has properties outside a section.
func (fset FileSet) Sections() map[string]struct{} {
	names := make(map[string]struct{})
	for _, f := range fset {
		for name := range f.Sections() {
			names[name] = struct{}{}
		}
	}
	return names
}

// HasSections reports whether any file in the set has properties outside the
// global section.
func (fset FileSet) HasSections() bool {
	for _, f := range fset {
		if f.HasSections() {
			return true
		}
	}
	return false
}

// Section merges the named section of every file, with each key's values
// ordered like Find.
func (fset FileSet) Section(name string) Section {
	merged := make(Section)
	for i := len(fset) - 1; i >= 0; i-- {
		for key, values := range fset[i].Section(name) {
			merged[key] = append(merged[key], values...)
		}
	}
	return merged
}

// Set sets the property in the first file and removes it from the rest, so
// that Get returns value afterward. It panics if the set is empty or the
// property is invalid. A nil first file is replaced by a new File.
func (fset FileSet) Set(section, key, value string) {
	fset.first().Set(section, key, value)
	fset[1:].Delete(section, key)
}

// Delete removes the property from every file in the set.
func (fset FileSet) Delete(section, key string) {
	for _, f := range fset {
		if f != nil {
			f.Delete(section, key)
		}
	}
}

// Add appends values for the property to the first file. It panics if the set
// is empty or File.Add would panic. A nil first file is replaced by a new File.
func (fset FileSet) Add(section, key string, values []string) {
	fset.first().Add(section, key, values)
}

func (fset FileSet) first() *File {
	if fset[0] == nil {
		fset[0] = new(File)
	}
	return fset[0]
}
