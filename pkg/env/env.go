// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env is the environment variable source for argument resolution.
package env

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yeetrun/conapp/pkg/fileutil"
)

// Lookuper looks up environment variables.
type Lookuper interface {
	LookupEnv(key string) (string, bool)
}

// OS is the process environment.
type OS struct{}

func (OS) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map is an in-memory environment.
type Map map[string]string

func (m Map) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Prefix returns the variable prefix for an application: name followed by
// a single underscore.
func Prefix(name string) string {
	name = strings.TrimRight(name, "_")
	if name == "" {
		return ""
	}
	return name + "_"
}

// Key returns the variable name for alias under prefix. The prefix gets a
// trailing underscore if it lacks one.
func Key(prefix, alias string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix + alias
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set are left alone and missing
// files are skipped.
func LoadDotEnv(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if !fileutil.Exists(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// Var is a single environment variable.
type Var struct {
	Key   string
	Value string
}

// List returns every variable in the process environment whose name starts
// with prefix, sorted by name.
func List(prefix string) []Var {
	var vars []Var
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(strings.ToUpper(k), strings.ToUpper(prefix)) {
			continue
		}
		vars = append(vars, Var{Key: k, Value: v})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Key < vars[j].Key })
	return vars
}

// Marshal writes vars as KEY=value lines. Empty values are skipped.
func Marshal(w io.Writer, vars []Var) error {
	for _, v := range vars {
		if v.Value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", v.Key, v.Value); err != nil {
			return err
		}
	}
	return nil
}

// Write writes an environment file with the given name and content.
func Write(name string, vars []Var) error {
	err := fileutil.WriteAtomic(name, 0644, func(w io.Writer) error {
		return Marshal(w, vars)
	})
	if err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	return nil
}
