// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Pause prints msg and waits for a key press. When r is a terminal a single
// key is enough; otherwise a whole line is read.
func Pause(r io.Reader, w io.Writer, msg string) error {
	fmt.Fprint(w, msg)
	defer fmt.Fprintln(w)

	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		old, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		defer term.Restore(int(f.Fd()), old)
		var b [1]byte
		if _, err := f.Read(b[:]); err != nil && err != io.EOF {
			return fmt.Errorf("failed to read key: %w", err)
		}
		return nil
	}

	_, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read key: %w", err)
	}
	return nil
}
