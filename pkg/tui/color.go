// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a colorizer for output written to w. Color is only
// used when w is a terminal, NO_COLOR is unset and TERM is not dumb.
func NewColorizer(w io.Writer) Colorizer {
	f, ok := w.(*os.File)
	if !ok || !IsTerminal(f) {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (c Colorizer) Wrap(text string, attrs ...color.Attribute) string {
	if !c.Enabled || len(attrs) == 0 {
		return text
	}
	col := color.New(attrs...)
	col.EnableColor()
	return col.Sprint(text)
}

func (c Colorizer) Error(text string) string {
	return c.Wrap(text, color.FgRed)
}

func (c Colorizer) Warn(text string) string {
	return c.Wrap(text, color.FgYellow)
}

func (c Colorizer) Heading(text string) string {
	return c.Wrap(text, color.Bold)
}

// Dim is used for hidden arguments and secondary text.
func (c Colorizer) Dim(text string) string {
	return c.Wrap(text, color.FgHiBlack)
}
