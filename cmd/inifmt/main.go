// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// inifmt formats, checks, queries, and edits INI files.
//
// Environment variables provide defaults for the global flags:
//
//	INIFMT_DEBUG         --debug
//	INIFMT_MAX_OPTIONS   --max-options
//	INIFMT_BUFFER_SIZE   --buffer-size
package main

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/yourbase/inikit/envvar"
	"zombiezen.com/go/log"
)

// app holds the state shared by all subcommands.
type app struct {
	fs afero.Fs

	debug      bool
	maxOptions int
	bufferSize int
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "inifmt",
		Short:         "Format, check, and edit INI files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.Info
			if a.debug {
				level = log.Debug
			}
			logs.route(cmd.ErrOrStderr(), level)
		},
	}
	flags := root.PersistentFlags()
	flags.BoolVar(&a.debug, "debug", envvar.Bool("INIFMT_DEBUG"), "log debug messages")
	flags.IntVar(&a.maxOptions, "max-options", envvar.Int("INIFMT_MAX_OPTIONS", 0), "reject files with more properties than this (0 for no limit)")
	flags.IntVar(&a.bufferSize, "buffer-size", envvar.Int("INIFMT_BUFFER_SIZE", 4096), "initial output buffer size in bytes")

	root.AddCommand(
		newFmtCommand(a),
		newCheckCommand(a),
		newGetCommand(a),
		newSetCommand(a),
		newListCommand(a),
	)
	return root
}

// logRouter is the process-wide logger. zombiezen.com/go/log accepts a single
// SetDefault call per process, so each run retargets this logger instead.
type logRouter struct {
	once   sync.Once
	mu     sync.Mutex
	out    io.Writer
	filter log.LevelFilter
}

var logs = new(logRouter)

// route sends subsequent log messages at or above level to w.
func (r *logRouter) route(w io.Writer, level log.Level) {
	r.mu.Lock()
	r.out = w
	r.filter.Min = level
	r.mu.Unlock()
	r.once.Do(func() {
		r.filter.Output = log.New(r, "inifmt: ", 0, nil)
		log.SetDefault(&r.filter)
	})
}

func (r *logRouter) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out.Write(p)
}

func run(ctx context.Context, fsys afero.Fs, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCommand(&app{fs: fsys})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx := context.Background()
	if err := run(ctx, afero.NewOsFs(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Errorf(ctx, "%v", err)
		os.Exit(1)
	}
}
