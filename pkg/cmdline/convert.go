// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// Kind is the type a raw argument value is converted to.
type Kind int

const (
	String Kind = iota
	Bool
	Int
	DateTime
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case DateTime:
		return "datetime"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Zero returns the zero value of k.
func (k Kind) Zero() any {
	switch k {
	case Bool:
		return false
	case Int:
		return int64(0)
	case DateTime:
		return time.Time{}
	}
	return ""
}

// Convert parses raw as kind. It reports false for an empty value or one
// that does not parse.
//
// Booleans look only at the first non-space character: t, y and 1 are true,
// f, n and 0 are false.
func Convert(kind Kind, raw string) (any, bool) {
	switch kind {
	case String:
		if raw == "" {
			return nil, false
		}
		return raw, true
	case Bool:
		b, ok := ParseBool(raw)
		if !ok {
			return nil, false
		}
		return b, true
	case Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case DateTime:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, false
		}
		t, err := dateparse.ParseLocal(raw)
		if err != nil || t.Year() == 0 {
			// Fragments such as "12:30" or "3/4" parse without a year.
			return nil, false
		}
		return t, true
	}
	return nil, false
}

// ParseBool converts v using the first non-space character rule.
func ParseBool(v string) (bool, bool) {
	for _, r := range v {
		if unicode.IsSpace(r) {
			continue
		}
		switch unicode.ToLower(r) {
		case 't', 'y', '1':
			return true, true
		case 'f', 'n', '0':
			return false, true
		}
		return false, false
	}
	return false, false
}

// Format renders a converted value back to its string form.
func Format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case uint64:
		return strconv.FormatUint(v, 10)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
