// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const sample = `; app settings
# another comment
debug=TRUE
pause=false
count=42
big=18446744073709551615
neg= -7
list=["a","b"]
when=2024-03-05T10:11:12Z
title=hello @\nworld
no separator here
 spaced name =keep  spaces
eq=a=b
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.settings")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	s, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wantKeys := []string{"debug", "pause", "count", "big", "neg", "list", "when", "title", "spaced name", "eq"}
	if diff := cmp.Diff(wantKeys, s.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"debug", true},
		{"pause", false},
		{"count", int64(42)},
		{"big", uint64(18446744073709551615)},
		{"neg", int64(-7)},
		{"list", `["a","b"]`},
		{"when", time.Date(2024, 3, 5, 10, 11, 12, 0, time.UTC)},
		{"title", "hello \nworld"},
		{"spaced name", "keep  spaces"},
		{"eq", "a=b"},
	}
	for _, tt := range tests {
		got, ok := s.Get(tt.key)
		if !ok {
			t.Errorf("Get(%q) missing", tt.key)
			continue
		}
		if gt, ok := got.(time.Time); ok {
			if !gt.Equal(tt.want.(time.Time)) {
				t.Errorf("Get(%q) = %v, want %v", tt.key, got, tt.want)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %#v, want %#v", tt.key, got, tt.want)
		}
	}

	if got := s.String("debug", ""); got != "TRUE" {
		t.Errorf("String(debug) = %q, want raw text %q", got, "TRUE")
	}
	if got := s.String("neg", ""); got != " -7" {
		t.Errorf("String(neg) = %q, want raw text", got)
	}
	if !s.Bool("debug", false) || s.Bool("pause", true) {
		t.Errorf("Bool(debug), Bool(pause) = %v, %v", s.Bool("debug", false), s.Bool("pause", true))
	}
	if got := s.Int("count", 0); got != 42 {
		t.Errorf("Int(count) = %d, want 42", got)
	}
	if got := s.Int("title", -1); got != -1 {
		t.Errorf("Int(title) = %d, want default", got)
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"True", true},
		{"12", int64(12)},
		{"12:30", "12:30"},
		{"1.5", "1.5"},
		{"3/4", "3/4"},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{"a@\\nb", "a\nb"},
	}
	for _, tt := range tests {
		got := infer(tt.raw)
		if want, ok := tt.want.(time.Time); ok {
			if gt, ok := got.(time.Time); !ok || !gt.Equal(want) {
				t.Errorf("infer(%q) = %v, want %v", tt.raw, got, want)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("infer(%q) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "none.settings"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.settings")
	s := New(path)
	when := time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)
	s.Set("name", "line1\r\nline2")
	s.Set("debug", true)
	s.Set("count", 3)
	s.Set("when", when)
	s.Set("gone", nil)
	if err := s.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "name=line1@\\r@\\nline2\ndebug=true\ncount=3\nwhen=2025-06-07T08:09:10Z\n"
	if string(b) != want {
		t.Errorf("file = %q, want %q", b, want)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String("name", ""); got != "line1\r\nline2" {
		t.Errorf("name = %q after reload", got)
	}
	if got := r.Time("when", time.Time{}); !got.Equal(when) {
		t.Errorf("when = %v, want %v", got, when)
	}
	if r.Contains("gone") {
		t.Errorf("nil value written to file")
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := New("")
	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("a", "3")
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys = %q, want [a b]", got)
	}
	if v, ok := s.Remove("a"); !ok || v != "3" {
		t.Errorf("Remove(a) = %v, %v; want 3, true", v, ok)
	}
	if _, ok := s.Remove("a"); ok {
		t.Errorf("second Remove(a) ok = true")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d", s.Len())
	}
	if err := s.Write(); err == nil {
		t.Errorf("Write without a path succeeded")
	}
}

func TestEncode(t *testing.T) {
	s := New("")
	s.Set("name", "demo")
	s.Set("debug", true)
	s.Set("count", 2)

	var buf bytes.Buffer
	if err := s.Encode(&buf, JSON); err != nil {
		t.Fatalf("Encode(json) failed: %v", err)
	}
	var js map[string]any
	if err := json.Unmarshal(buf.Bytes(), &js); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"name": "demo", "debug": true, "count": float64(2)}, js); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := s.Encode(&buf, TOML); err != nil {
		t.Fatalf("Encode(toml) failed: %v", err)
	}
	var tm map[string]any
	if _, err := toml.Decode(buf.String(), &tm); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"name": "demo", "debug": true, "count": int64(2)}, tm); diff != "" {
		t.Errorf("toml mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := s.Encode(&buf, YAML); err != nil {
		t.Fatalf("Encode(yaml) failed: %v", err)
	}
	if got, want := buf.String(), "name: demo\ndebug: true\ncount: 2\n"; got != want {
		t.Errorf("yaml = %q, want %q", got, want)
	}
	var ym map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &ym); err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	if err := s.Encode(&buf, Plain); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "name=demo\n") {
		t.Errorf("plain = %q", buf.String())
	}

	if err := s.Encode(&buf, Format("xml")); err == nil {
		t.Errorf("Encode(xml) succeeded")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Plain, "JSON": JSON, "toml": TOML, "Yaml": YAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("ini"); err == nil {
		t.Errorf("ParseFormat(ini) succeeded")
	}
}
