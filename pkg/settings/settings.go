// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package settings reads and writes the key=value settings file of a
// console application.
//
// Each line holds one key=value pair. Lines starting with ';' or '#' and
// lines without '=' are ignored. Values are typed on read: true/false become
// bools, numbers become int64 (or uint64 when too large), recognizable dates
// become times and everything else stays a string. Carriage returns and line
// feeds inside strings are stored as the literal sequences @\r and @\n.
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/yeetrun/conapp/pkg/cmdline"
	"github.com/yeetrun/conapp/pkg/fileutil"
)

type entry struct {
	raw   string
	value any
}

// Store is an ordered set of typed settings backed by a file.
type Store struct {
	path string
	keys []string
	m    map[string]entry
}

// New returns an empty store for the file at path. Nothing is read.
func New(path string) *Store {
	return &Store{path: path, m: make(map[string]entry)}
}

// Load returns a store for path populated from the file, if it exists.
func Load(path string) (*Store, error) {
	s := New(path)
	if err := s.Read(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file the store reads from and writes to.
func (s *Store) Path() string {
	return s.path
}

// Read replaces the contents of s with the settings file. A missing file
// leaves the store empty and is not an error.
func (s *Store) Read() error {
	s.Clear()
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open settings: %w", err)
	}
	defer f.Close()
	if err := s.Decode(f); err != nil {
		return fmt.Errorf("failed to read settings %s: %w", s.path, err)
	}
	return nil
}

// Decode adds the settings read from r to s.
func (s *Store) Decode(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}
		name, raw, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s.put(name, entry{raw: raw, value: infer(raw)})
	}
	return sc.Err()
}

// infer returns the typed form of a raw settings value.
func infer(raw string) any {
	switch {
	case strings.EqualFold(raw, "true"):
		return true
	case strings.EqualFold(raw, "false"):
		return false
	case strings.HasPrefix(raw, `["`) && strings.HasSuffix(raw, `"]`):
		return raw
	}
	v := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if n, err := strconv.ParseUint(v, 10, 64); err == nil {
		return n
	}
	if t, ok := cmdline.Convert(cmdline.DateTime, v); ok {
		return t
	}
	return unescape(raw)
}

var (
	unescaper = strings.NewReplacer(`@\r`, "\r", `@\n`, "\n")
	escaper   = strings.NewReplacer("\r", `@\r`, "\n", `@\n`)
)

func unescape(v string) string {
	return unescaper.Replace(v)
}

func escape(v string) string {
	return escaper.Replace(v)
}

// Write replaces the settings file with the contents of s.
func (s *Store) Write() error {
	if s.path == "" {
		return errors.New("settings: no file path")
	}
	err := fileutil.WriteAtomic(s.path, 0644, func(w io.Writer) error {
		_, err := s.WriteTo(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write settings %s: %w", s.path, err)
	}
	return nil
}

// WriteTo writes s in settings file form.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, k := range s.keys {
		e := s.m[k]
		if e.value == nil {
			continue
		}
		n, err := fmt.Fprintf(w, "%s=%s\n", k, encodeValue(e.value))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func encodeValue(v any) string {
	switch v := v.(type) {
	case string:
		return escape(v)
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return cmdline.Format(v)
}

func (s *Store) put(key string, e entry) {
	if s.m == nil {
		s.m = make(map[string]entry)
	}
	if _, ok := s.m[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.m[key] = e
}

// Set stores v under key. Supported values are string, bool, integers and
// time.Time; anything else is stored as its formatted string.
func (s *Store) Set(key string, v any) {
	switch x := v.(type) {
	case int:
		v = int64(x)
	case int32:
		v = int64(x)
	case uint:
		v = uint64(x)
	case uint32:
		v = uint64(x)
	case string, bool, int64, uint64, time.Time, nil:
	default:
		v = cmdline.Format(v)
	}
	s.put(key, entry{raw: encodeValue(v), value: v})
}

// Remove deletes key, returning its previous value.
func (s *Store) Remove(key string) (any, bool) {
	e, ok := s.m[key]
	if !ok {
		return nil, false
	}
	delete(s.m, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
	return e.value, true
}

// Contains reports whether key is set.
func (s *Store) Contains(key string) bool {
	_, ok := s.m[key]
	return ok
}

// Get returns the typed value of key.
func (s *Store) Get(key string) (any, bool) {
	e, ok := s.m[key]
	return e.value, ok
}

// Text returns key as text. Strings are returned decoded; other values are
// returned exactly as written in the file.
func (s *Store) Text(key string) (string, bool) {
	e, ok := s.m[key]
	if !ok {
		return "", false
	}
	if v, ok := e.value.(string); ok {
		return v, true
	}
	return e.raw, true
}

// String returns key as text, or def when unset.
func (s *Store) String(key, def string) string {
	if v, ok := s.Text(key); ok {
		return v
	}
	return def
}

// Bool returns key as a bool, or def when unset or not a bool.
func (s *Store) Bool(key string, def bool) bool {
	switch v := s.m[key].value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	}
	return def
}

// Int returns key as an int64, or def when unset or not an integer.
func (s *Store) Int(key string, def int64) int64 {
	if v, ok := s.m[key].value.(int64); ok {
		return v
	}
	return def
}

// Time returns key as a time, or def when unset or not a date.
func (s *Store) Time(key string, def time.Time) time.Time {
	if v, ok := s.m[key].value.(time.Time); ok {
		return v
	}
	return def
}

// Keys returns the keys of s in file order.
func (s *Store) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of settings.
func (s *Store) Len() int {
	return len(s.keys)
}

// Clear removes every setting.
func (s *Store) Clear() {
	s.keys = nil
	s.m = make(map[string]entry)
}
