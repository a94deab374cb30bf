// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argbind binds declared arguments to values taken from the command
// line, a settings file, the environment or a default, in that order.
package argbind

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/conapp/pkg/cmdline"
)

// Kinds re-exported for declarations.
const (
	String   = cmdline.String
	Bool     = cmdline.Bool
	Int      = cmdline.Int
	DateTime = cmdline.DateTime
)

// Mode describes how an argument appears on the command line.
type Mode int

const (
	// NameValueOptional is -name [value].
	NameValueOptional Mode = iota
	// NameOnly is a flag such as /name. Its value is the Present value.
	NameOnly
	// NameValueRequired is -name value. It resolves like
	// NameValueOptional and differs only in usage output.
	NameValueRequired
	// Positional is the Position-th unnamed token.
	Positional
)

func (m Mode) String() string {
	switch m {
	case NameValueOptional:
		return "NameValueOptional"
	case NameOnly:
		return "NameOnly"
	case NameValueRequired:
		return "NameValueRequired"
	case Positional:
		return "Positional"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Choice is one allowed value of an argument.
type Choice struct {
	Value string
	Help  string
}

// Declaration describes one argument an application accepts.
type Declaration struct {
	// Name identifies the argument in a Set.
	Name string
	// Aliases are the names accepted on the command line. The first is the
	// primary alias used for settings and environment lookups. When empty,
	// Name is used, or UnnamedItem<Position> for positional arguments.
	Aliases  []string
	Kind     cmdline.Kind
	Mode     Mode
	Position int

	Required bool
	// Default is used when no source supplies a value. Nil means the zero
	// value of Kind.
	Default any
	// Present is the value of a NameOnly argument that appears on the
	// command line. Nil means true for Bool arguments.
	Present any
	// Allowed restricts the value to one of the listed choices, compared
	// case-insensitively.
	Allowed []Choice

	AllowEnv    bool
	AllowConfig bool
	Disabled    bool

	// Validate is called after the value is resolved. set holds the
	// arguments resolved before this one. A non-nil error stops resolution.
	Validate func(set *Set, r *Resolved) error

	Description string
	MissingText string
	ValueLabel  string
	Group       string
	SortIndex   int
	Hidden      bool
}

// Keys returns the command line names of d, primary first. Positional
// arguments always include UnnamedItem<Position>, after any aliases.
func (d *Declaration) Keys() []string {
	if d.Mode == Positional && d.Position > 0 {
		pos := cmdline.UnnamedName(d.Position)
		if slices.ContainsFunc(d.Aliases, func(a string) bool { return strings.EqualFold(a, pos) }) {
			return d.Aliases
		}
		return append(slices.Clip(d.Aliases), pos)
	}
	if len(d.Aliases) > 0 {
		return d.Aliases
	}
	if d.Name == "" {
		return nil
	}
	return []string{d.Name}
}

// Primary returns the primary alias of d.
func (d *Declaration) Primary() string {
	if k := d.Keys(); len(k) > 0 {
		return k[0]
	}
	return ""
}

// DefaultValue returns the typed default of d.
func (d *Declaration) DefaultValue() any {
	if d.Default == nil {
		return d.Kind.Zero()
	}
	return normalize(d.Kind, d.Default)
}

// PresentValue returns the value a NameOnly argument takes when present.
func (d *Declaration) PresentValue() any {
	if d.Present != nil {
		return normalize(d.Kind, d.Present)
	}
	if d.Kind == cmdline.Bool {
		return true
	}
	return d.DefaultValue()
}

// normalize widens integer values so Int arguments always hold int64.
func normalize(k cmdline.Kind, v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint32:
		return int64(x)
	case string:
		if k != cmdline.String {
			if c, ok := cmdline.Convert(k, x); ok {
				return c
			}
		}
	}
	return v
}
