// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/yeetrun/conapp/pkg/cmdline"
	"github.com/yeetrun/conapp/pkg/env"
	"github.com/yeetrun/conapp/pkg/settings"
)

// Resolver binds declarations to values. The zero value only reads the
// command line and defaults.
type Resolver struct {
	// Settings is the config source. Nil disables it.
	Settings *settings.Store
	// Env is the environment source. Nil disables it.
	Env env.Lookuper
	// EnvPrefix is prepended to the primary alias to form the variable
	// name.
	EnvPrefix string
	Logger    hclog.Logger
}

// Resolve binds decls using raw, store and the process environment.
func Resolve(decls []Declaration, raw *cmdline.Store, store *settings.Store, envPrefix string) (*Set, error) {
	r := &Resolver{
		Settings:  store,
		Env:       env.OS{},
		EnvPrefix: envPrefix,
	}
	return r.Resolve(decls, raw)
}

func (r *Resolver) logger() hclog.Logger {
	if r.Logger == nil {
		return hclog.NewNullLogger()
	}
	return r.Logger
}

// Resolve binds each declaration in order. The first argument is taken
// from the first source that has it: the command line, then the settings
// file, then the environment, then its default. Resolution stops at the
// first error.
func (r *Resolver) Resolve(decls []Declaration, raw *cmdline.Store) (*Set, error) {
	if raw == nil {
		raw = cmdline.New(cmdline.IgnoreCase)
	}
	if err := checkDuplicates(decls, raw.Comparison()); err != nil {
		return nil, err
	}
	log := r.logger()
	set := newSet(len(decls))
	for i := range decls {
		d := &decls[i]
		res, err := r.resolve(set, d, raw)
		if err != nil {
			log.Debug("argument failed", "name", d.Name, "error", err)
			return nil, err
		}
		log.Trace("argument resolved", "name", d.Name, "origin", res.Origin, "value", res.Value, "has_value", res.HasValue)
		set.add(res)
	}
	return set, nil
}

func (r *Resolver) resolve(set *Set, d *Declaration, raw *cmdline.Store) (*Resolved, error) {
	res := &Resolved{
		Decl:   d,
		Value:  d.DefaultValue(),
		Origin: Default,
	}
	if d.Disabled {
		return res, nil
	}

	keys := d.Keys()
	primary := d.Primary()
	switch {
	case r.fromCommandLine(res, keys, raw):
	case r.fromConfig(res, primary):
	case r.fromEnv(res, primary):
	case d.Required:
		return nil, &MissingRequiredArgumentError{
			Name:        d.Name,
			Description: d.Description,
			MissingText: d.MissingText,
		}
	}

	if len(d.Allowed) > 0 {
		v := cmdline.Format(res.Value)
		ok := slices.ContainsFunc(d.Allowed, func(c Choice) bool {
			return strings.EqualFold(c.Value, v)
		})
		if !ok {
			return nil, &InvalidValueError{Name: d.Name, Value: v, Allowed: d.Allowed}
		}
	}

	if d.Validate != nil {
		if err := d.Validate(set, res); err != nil {
			return nil, validationError(d.Name, err)
		}
	}
	return res, nil
}

func (r *Resolver) fromCommandLine(res *Resolved, keys []string, raw *cmdline.Store) bool {
	for _, k := range keys {
		arg, ok := raw.Lookup(k)
		if !ok {
			continue
		}
		d := res.Decl
		res.Origin = CommandLine
		res.Alias = k
		switch {
		case d.Mode == NameOnly:
			res.Value = d.PresentValue()
			res.HasValue = true
		case arg.NoValue && d.Kind == cmdline.Bool:
			// /name for a boolean that also takes a value.
			res.Value = d.PresentValue()
			res.HasValue = true
		default:
			res.setFrom(arg.Value)
		}
		return true
	}
	return false
}

func (r *Resolver) fromConfig(res *Resolved, primary string) bool {
	if !res.Decl.AllowConfig || r.Settings == nil || primary == "" {
		return false
	}
	text, ok := r.Settings.Text(primary)
	if !ok {
		return false
	}
	res.Origin = Config
	res.setFrom(text)
	return true
}

func (r *Resolver) fromEnv(res *Resolved, primary string) bool {
	if !res.Decl.AllowEnv || r.Env == nil || primary == "" {
		return false
	}
	v, ok := r.Env.LookupEnv(env.Key(r.EnvPrefix, primary))
	if !ok {
		return false
	}
	res.Origin = Environment
	res.setFrom(v)
	return true
}

// setFrom converts text and stores it, keeping the default when text is
// empty or does not convert.
func (res *Resolved) setFrom(text string) {
	v, ok := cmdline.Convert(res.Decl.Kind, text)
	if !ok {
		res.Value = res.Decl.DefaultValue()
		res.HasValue = false
		return
	}
	res.Value = v
	res.HasValue = true
}

// checkDuplicates fails if two enabled declarations share a name or key.
func checkDuplicates(decls []Declaration, cmp cmdline.Comparison) error {
	norm := func(s string) string {
		if cmp == cmdline.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}
	keyOwner := make(map[string]string)
	names := make(map[string]bool)
	for i := range decls {
		d := &decls[i]
		if d.Disabled {
			continue
		}
		n := strings.ToLower(d.Name)
		if names[n] {
			return &DuplicateKeyError{Key: d.Name, Names: []string{d.Name, d.Name}}
		}
		names[n] = true
		seen := make(map[string]bool)
		for _, k := range d.Keys() {
			nk := norm(k)
			if seen[nk] {
				continue
			}
			seen[nk] = true
			if owner, ok := keyOwner[nk]; ok {
				return &DuplicateKeyError{Key: k, Names: []string{owner, d.Name}}
			}
			keyOwner[nk] = d.Name
		}
	}
	return nil
}
