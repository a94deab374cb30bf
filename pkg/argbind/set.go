// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/yeetrun/conapp/pkg/cmdline"
)

// Origin is the source a resolved value came from.
type Origin int

const (
	Default Origin = iota
	CommandLine
	Config
	Environment
)

func (o Origin) String() string {
	switch o {
	case Default:
		return "Default"
	case CommandLine:
		return "CommandLine"
	case Config:
		return "Config"
	case Environment:
		return "Environment"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// Resolved is a declaration bound to its value.
type Resolved struct {
	Decl *Declaration
	// Value is a string, bool, int64 or time.Time depending on Decl.Kind.
	Value  any
	Origin Origin
	// HasValue is set when a source supplied a usable value, as opposed to
	// the argument being absent or falling back to its default.
	HasValue bool
	// Alias is the command line name that matched, if any.
	Alias string
}

// Name returns the declaration name.
func (r *Resolved) Name() string {
	return r.Decl.Name
}

// Exists reports whether any source other than the default supplied r.
func (r *Resolved) Exists() bool {
	return r.Origin != Default
}

func (r *Resolved) String() string {
	return cmdline.Format(r.Value)
}

func (r *Resolved) Bool() bool {
	b, _ := r.Value.(bool)
	return b
}

func (r *Resolved) Int() int64 {
	n, _ := r.Value.(int64)
	return n
}

func (r *Resolved) Time() time.Time {
	t, _ := r.Value.(time.Time)
	return t
}

// Equal reports whether a and b describe the same resolution.
func Equal(a, b *Resolved) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Origin != b.Origin || a.HasValue != b.HasValue || a.Alias != b.Alias {
		return false
	}
	if (a.Decl == nil) != (b.Decl == nil) || (a.Decl != nil && a.Decl.Name != b.Decl.Name) {
		return false
	}
	if at, ok := a.Value.(time.Time); ok {
		bt, ok := b.Value.(time.Time)
		return ok && at.Equal(bt)
	}
	return a.Value == b.Value
}

// Set is the ordered result of one resolution pass.
type Set struct {
	items []*Resolved
	index map[string]int
}

func newSet(n int) *Set {
	return &Set{
		items: make([]*Resolved, 0, n),
		index: make(map[string]int, n),
	}
}

func (s *Set) add(r *Resolved) {
	s.index[strings.ToLower(r.Name())] = len(s.items)
	s.items = append(s.items, r)
}

// Len returns the number of resolved arguments.
func (s *Set) Len() int {
	return len(s.items)
}

// All returns the resolved arguments in declaration order.
func (s *Set) All() []*Resolved {
	return append([]*Resolved(nil), s.items...)
}

// Lookup returns the argument declared with name.
func (s *Set) Lookup(name string) (*Resolved, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

// Value returns the value of name, or nil if it was not declared.
func (s *Set) Value(name string) any {
	if r, ok := s.Lookup(name); ok {
		return r.Value
	}
	return nil
}

// Exists reports whether name was supplied by a source other than its
// default.
func (s *Set) Exists(name string) bool {
	r, ok := s.Lookup(name)
	return ok && r.Exists()
}

func (s *Set) String(name string) string {
	if r, ok := s.Lookup(name); ok {
		return r.String()
	}
	return ""
}

func (s *Set) Bool(name string) bool {
	if r, ok := s.Lookup(name); ok {
		return r.Bool()
	}
	return false
}

func (s *Set) Int(name string) int64 {
	if r, ok := s.Lookup(name); ok {
		return r.Int()
	}
	return 0
}

func (s *Set) Time(name string) time.Time {
	if r, ok := s.Lookup(name); ok {
		return r.Time()
	}
	return time.Time{}
}

// Map returns the values keyed by declaration name.
func (s *Set) Map() map[string]any {
	m := make(map[string]any, len(s.items))
	for _, r := range s.items {
		m[r.Name()] = r.Value
	}
	return m
}

// Decode copies the resolved values into the struct pointed to by out.
// Fields are matched by their `arg` tag or, failing that, by name. String
// values decode into []string fields by splitting on ';'.
func (s *Set) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(";"),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		TagName:          "arg",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(s.Map()); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}
