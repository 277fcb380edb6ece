// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/yourbase/inikit/ini"
	"zombiezen.com/go/log"
)

// render serializes f, doubling the output buffer until the text fits.
func (a *app) render(cmd *cobra.Command, f *ini.File) ([]byte, error) {
	entries := f.Entries()
	w := a.writer()
	size := a.bufferSize
	if size <= 0 {
		size = 4096
	}
	for {
		buf := make([]byte, size)
		n, err := w.Write(buf, len(entries), func(i int) ini.Entry {
			return entries[i]
		})
		if errors.Is(err, ini.BufferFull) {
			size *= 2
			log.Debugf(cmd.Context(), "Output buffer full after %d bytes; retrying with %d bytes", n, size)
			continue
		}
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
}
