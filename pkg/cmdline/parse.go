// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
)

// Options control how tokens are parsed.
type Options struct {
	Comparison Comparison

	// LegacySlashSplit cuts /name=value names one character short, the way
	// older releases did. Only set it to read argument lines written for
	// those releases.
	LegacySlashSplit bool
}

// Parse tokenizes args with the default options.
//
// Supported forms:
//
//	-name value        name = value
//	-name=value        name = value (also ':' and any number of dashes)
//	-"name 1" value    name 1 = value
//	-name1 -name2      name1 = -name2
//	/name              name, no value
//	/name:value        name = value
//	/name value        name, no value; value is the next positional item
//	value              UnnamedItem<N> = value
//
// A -name with nothing after it is dropped. Parse never fails.
func Parse(args []string) *Store {
	return ParseWith(Options{}, args)
}

// ParseWith is like Parse but honors opts.
func ParseWith(opts Options, args []string) *Store {
	s := New(opts.Comparison)
	s.original = append([]string(nil), args...)

	var (
		pending  string
		unnamed  int
		awaiting bool
	)
	for _, arg := range args {
		if awaiting {
			s.Add(pending, unquote(strings.TrimSpace(arg)))
			awaiting = false
			continue
		}
		switch prefixOf(arg) {
		case '-':
			name, value, ok := split(unwrap(arg, '-'), '-', false)
			if ok {
				if name != "" {
					s.Add(name, value)
				}
				continue
			}
			pending, awaiting = name, name != ""
		case '/':
			name, value, ok := split(unwrap(arg, '/'), '/', opts.LegacySlashSplit)
			switch {
			case name == "":
			case ok:
				s.Add(name, value)
			default:
				s.AddFlag(name)
			}
		default:
			unnamed++
			s.Add(UnnamedName(unnamed), arg)
		}
	}
	return s
}

// ParseString splits line using shell quoting rules and parses the result.
func ParseString(line string) (*Store, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split command line: %w", err)
	}
	return Parse(args), nil
}

// prefixOf returns the leading '-' or '/' of arg, looking through any
// surrounding quotes, or 0 for a positional token.
func prefixOf(arg string) byte {
	v := strings.TrimSpace(arg)
	for isQuoted(v) {
		v = v[1 : len(v)-1]
	}
	if v != "" && (v[0] == '-' || v[0] == '/') {
		return v[0]
	}
	return 0
}

// unwrap strips leading prefix characters and surrounding quotes until
// neither remains, so --"--name" becomes name.
func unwrap(arg string, prefix byte) string {
	v := strings.TrimSpace(arg)
	for (v != "" && v[0] == prefix) || isQuoted(v) {
		v = strings.TrimLeft(v, string(prefix))
		if isQuoted(v) {
			v = v[1 : len(v)-1]
		}
	}
	return v
}

// split cuts v at the first '=' or ':'. Quotes around either side are
// removed, so -"name"="value" is name = value. legacy reproduces the old
// slash behavior of losing the name's last character.
func split(v string, prefix byte, legacy bool) (name, value string, ok bool) {
	i := strings.IndexAny(v, "=:")
	if i < 0 {
		return v, "", false
	}
	end := i
	if legacy && end > 0 {
		end--
	}
	return trimStrayQuote(unwrap(v[:end], prefix)), trimStrayQuote(unquote(v[i+1:])), true
}

func unquote(v string) string {
	if isQuoted(v) {
		return v[1 : len(v)-1]
	}
	return v
}

// trimStrayQuote drops a lone quote left at either end of v after the
// surrounding quotes of a whole token were split apart.
func trimStrayQuote(v string) string {
	if strings.Count(v, `"`) != 1 {
		return v
	}
	return strings.TrimSuffix(strings.TrimPrefix(v, `"`), `"`)
}

func isQuoted(v string) bool {
	return len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"'
}

// ReadValuesFromFile returns the lines of the named file, skipping lines
// that start with ';'.
func ReadValuesFromFile(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var values []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ";") {
			continue
		}
		values = append(values, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return values, nil
}
