// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/yourbase/inikit/ini"
	"zombiezen.com/go/log"
)

// stdinPath is the file argument that means standard input.
const stdinPath = "-"

func newFmtCommand(a *app) *cobra.Command {
	var write bool
	c := &cobra.Command{
		Use:   "fmt [-w] [FILE [...]]",
		Short: "Rewrite files with properties grouped by section",
		Long: "fmt parses each file and prints it back with all properties of a section\n" +
			"under a single header. With no files, fmt reads standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdinPath}
			}
			for _, path := range args {
				f, err := a.readFile(cmd, path)
				if err != nil {
					return err
				}
				if !write || path == stdinPath {
					text, err := a.render(cmd, f)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					if _, err := cmd.OutOrStdout().Write(text); err != nil {
						return err
					}
					continue
				}
				if err := a.writer().WriteFile(a.fs, path, f); err != nil {
					return err
				}
				log.Infof(cmd.Context(), "Formatted %s", path)
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file instead of standard output")
	return c
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE [...]",
		Short: "Report syntax errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				text, err := a.readText(cmd, path)
				if err != nil {
					return err
				}
				n := 0
				err = ini.Parse(text, func(section, key, value string) { n++ })
				var perr *ini.ParseError
				if errors.As(err, &perr) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: %v\n", path, perr.Line, perr.Column, perr.Kind)
					failed++
					continue
				}
				if err != nil {
					return err
				}
				log.Debugf(cmd.Context(), "%s: %d properties", path, n)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have errors", failed, len(args))
			}
			return nil
		},
	}
}

func newGetCommand(a *app) *cobra.Command {
	var all bool
	c := &cobra.Command{
		Use:   "get [--all] FILE [...] SECTION KEY",
		Short: "Print the value of a property",
		Long: "get prints the last value of KEY in SECTION from the first FILE that has it.\n" +
			"Earlier files take precedence and missing files are skipped. Use an empty\n" +
			"SECTION for properties outside any section.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, section, key := args[:len(args)-2], args[len(args)-2], args[len(args)-1]
			fset, err := ini.ParseFiles(a.fs, paths...)
			if err != nil {
				return err
			}
			if all {
				for _, v := range fset.Find(section, key) {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), v); err != nil {
						return err
					}
				}
				return nil
			}
			v, ok := fset.Lookup(section, key)
			if !ok {
				return fmt.Errorf("no property %q in section %q", key, section)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
	c.Flags().BoolVar(&all, "all", false, "print every value, lowest precedence first")
	return c
}

func newSetCommand(a *app) *cobra.Command {
	var add bool
	c := &cobra.Command{
		Use:   "set [--add] FILE [...] SECTION KEY VALUE",
		Short: "Set the value of a property, creating the file if needed",
		Long: "set stores the property in the first FILE and removes it from the other\n" +
			"files, so that get reports VALUE for the same list of files. With --add,\n" +
			"VALUE is appended to the first FILE and the other files are left alone.",
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := len(args)
			paths, section, key, value := args[:n-3], args[n-3], args[n-2], args[n-1]
			if !ini.IsValidSection(section) {
				return fmt.Errorf("invalid section name %q", section)
			}
			if !ini.IsValidKey(key) {
				return fmt.Errorf("invalid key %q", key)
			}
			if !ini.IsValidValue(value) {
				return fmt.Errorf("invalid value %q", value)
			}
			fset, err := ini.ParseFiles(a.fs, paths...)
			if err != nil {
				return err
			}
			if fset[0] == nil {
				log.Debugf(cmd.Context(), "Creating %s", paths[0])
			}
			before := make([]int, len(fset))
			for i, f := range fset {
				before[i] = f.Len()
			}
			if add {
				fset.Add(section, key, []string{value})
			} else {
				fset.Set(section, key, value)
			}
			w := a.writer()
			for i, f := range fset {
				if i > 0 && (f == nil || f.Len() == before[i]) {
					continue
				}
				if err := w.WriteFile(a.fs, paths[i], f); err != nil {
					return err
				}
				log.Debugf(cmd.Context(), "Wrote %s", paths[i])
			}
			return nil
		},
	}
	c.Flags().BoolVar(&add, "add", false, "append a value instead of replacing existing ones")
	return c
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE [...]",
		Short: "Print a table of all properties",
		Long: "list prints the properties of all files, sorted by section and key.\n" +
			"Values of a repeated key appear lowest precedence first.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fset, err := ini.ParseFiles(a.fs, args...)
			if err != nil {
				return err
			}
			withSections := fset.HasSections()
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			if withSections {
				table.SetHeader([]string{"Section", "Key", "Value"})
			} else {
				table.SetHeader([]string{"Key", "Value"})
			}
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			for _, name := range sortedKeys(fset.Sections()) {
				sect := fset.Section(name)
				keys := make([]string, 0, len(sect))
				for key := range sect {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					for _, v := range sect[key] {
						row := []string{key, fmt.Sprintf("%q", v)}
						if withSections {
							row = append([]string{name}, row...)
						}
						table.Append(row)
					}
				}
			}
			table.Render()
			return nil
		},
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *app) readText(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		return io.ReadAll(cmd.InOrStdin())
	}
	return afero.ReadFile(a.fs, path)
}

func (a *app) readFile(cmd *cobra.Command, path string) (*ini.File, error) {
	var r io.Reader
	if path == stdinPath {
		r = cmd.InOrStdin()
	} else {
		file, err := a.fs.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}
	f, err := ini.ParseFile(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf(cmd.Context(), "Read %d properties from %s", f.Len(), path)
	return f, nil
}

func (a *app) writer() *ini.Writer {
	return &ini.Writer{MaxOptions: a.maxOptions}
}
