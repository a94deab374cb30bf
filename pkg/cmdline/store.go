// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdline tokenizes process arguments into an ordered store of
// name/value pairs and offers typed lookups over it.
package cmdline

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// UnnamedPrefix is the name prefix given to positional tokens.
const UnnamedPrefix = "UnnamedItem"

// UnnamedName returns the store name of the n-th (1-based) positional token.
func UnnamedName(n int) string {
	return fmt.Sprintf("%s%d", UnnamedPrefix, n)
}

// Comparison selects how argument names are matched.
type Comparison int

const (
	// IgnoreCase matches names case-insensitively. It is the default.
	IgnoreCase Comparison = iota
	// CaseSensitive matches names byte for byte.
	CaseSensitive
)

func (c Comparison) String() string {
	switch c {
	case IgnoreCase:
		return "ignore-case"
	case CaseSensitive:
		return "case-sensitive"
	}
	return fmt.Sprintf("Comparison(%d)", int(c))
}

func (c Comparison) key(name string) string {
	if c == CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// Equal reports whether two names match under c.
func (c Comparison) Equal(a, b string) bool {
	if c == CaseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// Arg is a single raw argument.
type Arg struct {
	Name  string
	Value string
	// NoValue is set for arguments that were present without any value,
	// such as /name.
	NoValue bool
}

// IsUnnamed reports whether a is a positional token.
func (a Arg) IsUnnamed() bool {
	return IsUnnamed(a.Name)
}

// IsUnnamed reports whether name is the store name of a positional token.
func IsUnnamed(name string) bool {
	if len(name) <= len(UnnamedPrefix) || !strings.EqualFold(name[:len(UnnamedPrefix)], UnnamedPrefix) {
		return false
	}
	for _, r := range name[len(UnnamedPrefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Store is an insertion-ordered set of raw arguments keyed by name. A name
// appears at most once; adding an existing name replaces the old entry and
// moves it to the end.
type Store struct {
	cmp      Comparison
	args     []Arg
	index    map[string]int
	original []string
}

// New returns an empty store using the given name comparison.
func New(cmp Comparison) *Store {
	return &Store{
		cmp:   cmp,
		index: make(map[string]int),
	}
}

// Comparison returns the name comparison used by s.
func (s *Store) Comparison() Comparison {
	return s.cmp
}

// Original returns the tokens the store was parsed from.
func (s *Store) Original() []string {
	return slices.Clone(s.original)
}

// Len returns the number of arguments in s.
func (s *Store) Len() int {
	return len(s.args)
}

// At returns the i-th argument in insertion order.
func (s *Store) At(i int) Arg {
	return s.args[i]
}

// Args returns a copy of all arguments in insertion order.
func (s *Store) Args() []Arg {
	return slices.Clone(s.args)
}

// Add stores name with value, replacing any earlier entry of the same name.
func (s *Store) Add(name, value string) {
	s.add(Arg{Name: name, Value: value})
}

// AddFlag stores name without a value.
func (s *Store) AddFlag(name string) {
	s.add(Arg{Name: name, NoValue: true})
}

func (s *Store) add(a Arg) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.remove(a.Name)
	s.index[s.cmp.key(a.Name)] = len(s.args)
	s.args = append(s.args, a)
}

// Remove deletes every named argument. It reports whether anything was
// removed.
func (s *Store) Remove(names ...string) bool {
	var removed bool
	for _, n := range names {
		if s.remove(n) {
			removed = true
		}
	}
	return removed
}

func (s *Store) remove(name string) bool {
	k := s.cmp.key(name)
	i, ok := s.index[k]
	if !ok {
		return false
	}
	delete(s.index, k)
	s.args = slices.Delete(s.args, i, i+1)
	for j := i; j < len(s.args); j++ {
		s.index[s.cmp.key(s.args[j].Name)] = j
	}
	return true
}

// IndexOf returns the position of the first of names present in s, or -1.
func (s *Store) IndexOf(names ...string) int {
	for _, n := range names {
		if i, ok := s.index[s.cmp.key(n)]; ok {
			return i
		}
	}
	return -1
}

// Contains reports whether any of names is present.
func (s *Store) Contains(names ...string) bool {
	return s.IndexOf(names...) >= 0
}

// ContainsAll reports whether every one of names is present.
func (s *Store) ContainsAll(names ...string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if !s.Contains(n) {
			return false
		}
	}
	return true
}

// Lookup returns the first of names present in s.
func (s *Store) Lookup(names ...string) (Arg, bool) {
	i := s.IndexOf(names...)
	if i < 0 {
		return Arg{}, false
	}
	return s.args[i], true
}

// HasValue reports whether any of names is present with a non-empty value.
func (s *Store) HasValue(names ...string) bool {
	for _, n := range names {
		if a, ok := s.Lookup(n); ok && a.Value != "" {
			return true
		}
	}
	return false
}

// Get returns the first match of names converted to kind. If nothing
// matches or the conversion fails, def is returned.
func (s *Store) Get(kind Kind, def any, names ...string) any {
	a, ok := s.Lookup(names...)
	if !ok {
		return def
	}
	if v, ok := Convert(kind, a.Value); ok {
		return v
	}
	return def
}

// String returns the value of the first of names present.
func (s *Store) String(def string, names ...string) string {
	return s.Get(String, def, names...).(string)
}

// Bool returns the first of names as a bool. A name present without a
// value counts as true.
func (s *Store) Bool(def bool, names ...string) bool {
	if a, ok := s.Lookup(names...); ok && a.NoValue {
		return true
	}
	return s.Get(Bool, def, names...).(bool)
}

// Int returns the first of names as a base-10 integer.
func (s *Store) Int(def int64, names ...string) int64 {
	return s.Get(Int, def, names...).(int64)
}

// Time returns the first of names as a date/time in local time.
func (s *Store) Time(def time.Time, names ...string) time.Time {
	return s.Get(DateTime, def, names...).(time.Time)
}

// List splits the first of names on sep, dropping empty elements. def is
// returned when no name carries a value.
func (s *Store) List(sep string, def []string, names ...string) []string {
	v := s.String("", names...)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Remainder returns the value of the first of names that carries a value,
// followed by the values of every later argument, joined by spaces. Names
// present without a value, such as /name, are passed over.
func (s *Store) Remainder(names ...string) (string, bool) {
	for _, n := range names {
		if a, ok := s.Lookup(n); ok && !a.NoValue {
			return s.RemainderAt(s.IndexOf(n)), true
		}
	}
	return "", false
}

// RemainderAt is like Remainder but starts at position i. It returns the
// empty string when i is out of range or names an argument without a value.
// Later arguments without a value contribute an empty element.
func (s *Store) RemainderAt(i int) string {
	if i < 0 || i >= len(s.args) || s.args[i].NoValue {
		return ""
	}
	parts := make([]string, 0, len(s.args)-i)
	for _, a := range s.args[i:] {
		parts = append(parts, a.Value)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// After returns the values of every argument after the first of names.
func (s *Store) After(names ...string) []string {
	i := s.IndexOf(names...)
	if i < 0 {
		return nil
	}
	var out []string
	for _, a := range s.args[i+1:] {
		if !a.NoValue {
			out = append(out, a.Value)
		}
	}
	return out
}

// Unnamed returns the values of all positional tokens in order.
func (s *Store) Unnamed() []string {
	var out []string
	for _, a := range s.args {
		if a.IsUnnamed() {
			out = append(out, a.Value)
		}
	}
	return out
}

// Positional returns the n-th (1-based) positional token.
func (s *Store) Positional(n int) (string, bool) {
	a, ok := s.Lookup(UnnamedName(n))
	return a.Value, ok
}

// Tokens renders s back into argument form: -name value, /name, or the bare
// positional token. Names and values containing spaces are quoted. Parsing
// the result yields the same name/value pairs.
func (s *Store) Tokens() []string {
	out := make([]string, 0, len(s.args)*2)
	for _, a := range s.args {
		switch {
		case a.IsUnnamed():
			out = append(out, a.Value)
		case a.NoValue:
			out = append(out, "/"+quote(a.Name))
		default:
			out = append(out, "-"+quote(a.Name), quote(a.Value))
		}
	}
	return out
}

// Line renders s as a single command line.
func (s *Store) Line() string {
	toks := s.Tokens()
	var i int
	for _, a := range s.args {
		if a.IsUnnamed() {
			toks[i] = quote(toks[i])
			i++
			continue
		}
		i++
		if !a.NoValue {
			i++
		}
	}
	return strings.Join(toks, " ")
}

func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}
