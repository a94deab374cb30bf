// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		prefix, alias, want string
	}{
		{"popmenu_", "key", "popmenu_key"},
		{"popmenu", "key", "popmenu_key"},
		{"", "key", "key"},
	}
	for _, tt := range tests {
		if got := Key(tt.prefix, tt.alias); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.prefix, tt.alias, got, tt.want)
		}
	}
}

func TestPrefix(t *testing.T) {
	for in, want := range map[string]string{"app": "app_", "app__": "app_", "": ""} {
		if got := Prefix(in); got != want {
			t.Errorf("Prefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMap(t *testing.T) {
	m := Map{"A": "1", "EMPTY": ""}
	if v, ok := m.LookupEnv("A"); !ok || v != "1" {
		t.Errorf("LookupEnv(A) = %q, %v", v, ok)
	}
	if _, ok := m.LookupEnv("EMPTY"); !ok {
		t.Errorf("LookupEnv(EMPTY) not found")
	}
	if _, ok := m.LookupEnv("B"); ok {
		t.Errorf("LookupEnv(B) found")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CONAPPTEST_NEW=fromfile\nCONAPPTEST_SET=fromfile\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONAPPTEST_SET", "fromenv")
	t.Setenv("CONAPPTEST_NEW", "")
	os.Unsetenv("CONAPPTEST_NEW")

	loaded, err := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	if err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != path {
		t.Errorf("loaded = %q, want [%q]", loaded, path)
	}
	if got := os.Getenv("CONAPPTEST_NEW"); got != "fromfile" {
		t.Errorf("CONAPPTEST_NEW = %q, want %q", got, "fromfile")
	}
	if got := os.Getenv("CONAPPTEST_SET"); got != "fromenv" {
		t.Errorf("CONAPPTEST_SET = %q, want existing value kept", got)
	}

	vars := List("conapptest_")
	if len(vars) != 2 || vars[0].Key != "CONAPPTEST_NEW" {
		t.Errorf("List = %+v", vars)
	}
}

func TestMarshal(t *testing.T) {
	var buf bytes.Buffer
	vars := []Var{{"APP_A", "1"}, {"APP_B", ""}, {"APP_C", "x y"}}
	if err := Marshal(&buf, vars); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "APP_A=1\nAPP_C=x y\n"; got != want {
		t.Errorf("Marshal = %q, want %q", got, want)
	}

	path := filepath.Join(t.TempDir(), "app.env")
	if err := Write(path, vars); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != buf.String() {
		t.Errorf("file = %q, want %q", b, buf.String())
	}
}
