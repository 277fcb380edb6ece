// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/afero"
)

func TestNilFileSet(t *testing.T) {
	fset := (FileSet)(nil)
	if got := fset.Get("foo", "bar"); got != "" {
		t.Errorf("Get(...) = %q; want empty", got)
	}
	if got := fset.Find("foo", "bar"); len(got) > 0 {
		t.Errorf("Find(...) = %q; want empty", got)
	}
	if got := fset.Sections(); len(got) > 0 {
		t.Errorf("Sections(...) = %q; want empty", got)
	}
	if fset.HasSections() {
		t.Error("HasSections() = true; want false")
	}
	if got := fset.Section("foo"); len(got) > 0 {
		t.Errorf("Section(...) = %q; want empty", got)
	}
	if _, ok := fset.Lookup("foo", "bar"); ok {
		t.Error("Lookup(...) reported found")
	}
}

func TestFileSetAccess(t *testing.T) {
	tests := []struct {
		name     string
		sources  []string
		section  string
		key      string
		wantGet  string
		wantFind []string
	}{
		{
			name:     "ExistsInFirst",
			sources:  []string{"FOO=bar\n", "BAZ=quux\n"},
			section:  "",
			key:      "FOO",
			wantGet:  "bar",
			wantFind: []string{"bar"},
		},
		{
			name:     "ExistsInSecond",
			sources:  []string{"FOO=bar\n", "BAZ=quux\n"},
			section:  "",
			key:      "BAZ",
			wantGet:  "quux",
			wantFind: []string{"quux"},
		},
		{
			name:     "DoesNotExist",
			sources:  []string{"FOO=bar\n", "BAZ=quux\n"},
			section:  "",
			key:      "bork",
			wantGet:  "",
			wantFind: []string{},
		},
		{
			name:     "MultipleValues",
			sources:  []string{"FOO=bar\n", "FOO=baz\n"},
			section:  "",
			key:      "FOO",
			wantGet:  "bar",
			wantFind: []string{"baz", "bar"},
		},
		{
			name: "Section",
			sources: []string{
				"[foo]\n" +
					"bar=baz\n" +
					"[xyzzy]\n" +
					"bork=bork\n",
				"[foo]\n" +
					"something=else\n",
			},
			section:  "foo",
			key:      "bar",
			wantGet:  "baz",
			wantFind: []string{"baz"},
		},
	}
	t.Run("Get", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				var fset FileSet
				for _, src := range test.sources {
					fset = append(fset, parseString(t, src))
				}
				if got := fset.Get(test.section, test.key); got != test.wantGet {
					t.Errorf("fset.Get(%q, %q) = %q; want %q", test.section, test.key, got, test.wantGet)
				}
				if got := fset.Section(test.section).Get(test.key); got != test.wantGet {
					t.Errorf("fset.Section(%q).Get(%q) = %q; want %q", test.section, test.key, got, test.wantGet)
				}
			})
		}
	})
	t.Run("Find", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				var fset FileSet
				for _, src := range test.sources {
					fset = append(fset, parseString(t, src))
				}
				got := fset.Find(test.section, test.key)
				if diff := cmp.Diff(test.wantFind, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("fset.Find(%q, %q) (-want +got):\n%s", test.section, test.key, diff)
				}
				got = fset.Section(test.section)[test.key]
				if diff := cmp.Diff(test.wantFind, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("fset.Section(%q)[%q] (-want +got):\n%s", test.section, test.key, diff)
				}
			})
		}
	})
}

func TestFileSetSet(t *testing.T) {
	tests := []struct {
		name    string
		sources []string
		section string
		key     string
		value   string
		want    []string
	}{
		{
			name:    "AddToEmpty",
			sources: []string{""},
			section: "",
			key:     "foo",
			value:   "bar",
			want:    []string{"[]\nfoo=bar\n\n"},
		},
		{
			name:    "AddSectionToEmpty",
			sources: []string{""},
			section: "foo",
			key:     "bar",
			value:   "baz",
			want:    []string{"[foo]\nbar=baz\n\n"},
		},
		{
			name:    "Overwrite",
			sources: []string{""},
			section: "",
			key:     "foo",
			value:   "xyzzy",
			want:    []string{"[]\nfoo=xyzzy\n\n"},
		},
		{
			name:    "DeleteInLaterFiles",
			sources: []string{"", "; Comment 1\nfoo=bar\n; Comment 2\nfoo=baz\n"},
			section: "",
			key:     "foo",
			value:   "quux",
			want:    []string{"[]\nfoo=quux\n\n", ""},
		},
		{
			name:    "AddToExistingSection",
			sources: []string{"", "foo=bar\n"},
			section: "",
			key:     "baz",
			value:   "quux",
			want:    []string{"[]\nbaz=quux\n\n", "[]\nfoo=bar\n\n"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var fset FileSet
			for _, src := range test.sources {
				var f *File
				if src != "" {
					f = parseString(t, src)
				}
				fset = append(fset, f)
			}

			fset.Set(test.section, test.key, test.value)

			got := make([]string, len(fset))
			for i, f := range fset {
				text, err := f.MarshalText()
				if err != nil {
					t.Fatal(err)
				}
				got[i] = string(text)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("MarshalText (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/etc/app.ini":  "[server]\nport=8080\nhost=example.com\n",
		"/home/app.ini": "[server]\nport=9090\n",
	}
	for name, text := range files {
		if err := afero.WriteFile(fsys, name, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fset, err := ParseFiles(fsys, "/home/app.ini", "/missing.ini", "/etc/app.ini")
	if err != nil {
		t.Fatal("ParseFiles:", err)
	}
	if len(fset) != 3 {
		t.Fatalf("len(fset) = %d; want 3", len(fset))
	}
	if fset[1] != nil {
		t.Errorf("fset[1] = %v; want nil for missing file", fset[1])
	}
	if got, want := fset.Get("server", "port"), "9090"; got != want {
		t.Errorf("fset.Get(\"server\", \"port\") = %q; want %q", got, want)
	}
	if got, want := fset.Get("server", "host"), "example.com"; got != want {
		t.Errorf("fset.Get(\"server\", \"host\") = %q; want %q", got, want)
	}
	if diff := cmp.Diff([]string{"8080", "9090"}, fset.Find("server", "port")); diff != "" {
		t.Errorf("fset.Find(\"server\", \"port\") (-want +got):\n%s", diff)
	}
}

func TestParseFilesError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/good.ini", []byte("a=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, "/bad.ini", []byte("a 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fset, err := ParseFiles(fsys, "/good.ini", "/bad.ini")
	if !errors.Is(err, MalformedEntry) {
		t.Errorf("ParseFiles error = %v; want %v", err, MalformedEntry)
	}
	if err != nil && !strings.Contains(err.Error(), "/bad.ini") {
		t.Errorf("ParseFiles error %q does not name /bad.ini", err)
	}
	if len(fset) != 1 {
		t.Errorf("len(fset) = %d; want 1", len(fset))
	}
}

func TestWriteFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	f := new(File)
	f.Set("server", "port", "8080")
	f.Set("", "name", "demo")
	if err := WriteFile(fsys, "/out.ini", f); err != nil {
		t.Fatal("WriteFile:", err)
	}
	got, err := afero.ReadFile(fsys, "/out.ini")
	if err != nil {
		t.Fatal(err)
	}
	const want = "[server]\nport=8080\n\n[]\nname=demo\n\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("file contents (-want +got):\n%s", diff)
	}

	fset, err := ParseFiles(fsys, "/out.ini")
	if err != nil {
		t.Fatal("ParseFiles:", err)
	}
	if diff := cmp.Diff(f.Entries(), fset[0].Entries(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("entries after reading back (-want +got):\n%s", diff)
	}
}

func TestWriterWriteFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	const orig = "a=1\n"
	if err := afero.WriteFile(fsys, "/a.ini", []byte(orig), 0o644); err != nil {
		t.Fatal(err)
	}
	f := new(File)
	f.Add("", "k", []string{"1", "2", "3"})
	w := &Writer{MaxOptions: 2}
	if err := w.WriteFile(fsys, "/a.ini", f); !errors.Is(err, TooManyOptions) {
		t.Errorf("WriteFile error = %v; want %v", err, TooManyOptions)
	}
	got, err := afero.ReadFile(fsys, "/a.ini")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != orig {
		t.Errorf("/a.ini = %q after failed write; want %q", got, orig)
	}
}

func TestFileSetAdd(t *testing.T) {
	fset := FileSet{nil, parseString(t, "k=old\n")}
	fset.Add("", "k", []string{"a", "b"})
	if fset[0] == nil {
		t.Fatal("fset[0] still nil after Add")
	}
	if diff := cmp.Diff([]string{"old", "a", "b"}, fset.Find("", "k")); diff != "" {
		t.Errorf("fset.Find(\"\", \"k\") (-want +got):\n%s", diff)
	}
	if got, want := fset.Get("", "k"), "b"; got != want {
		t.Errorf("fset.Get(\"\", \"k\") = %q; want %q", got, want)
	}
}
