// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/conapp/pkg/argbind"
	"github.com/yeetrun/conapp/pkg/cmdline"
	"github.com/yeetrun/conapp/pkg/env"
	"github.com/yeetrun/conapp/pkg/settings"
)

func (a *App) writeTitle(set *argbind.Set, everything bool) {
	c := a.color(a.Stdout)
	pad := strings.Repeat(" ", len(a.Name))
	requested := set != nil && (set.Exists(ArgHelp) || set.Exists(ArgHidden))

	ver := "version: " + a.AppVersion()
	if set.Exists(ArgVersion) {
		ver = c.Heading(ver)
	}
	fmt.Fprintf(a.Stdout, "%s | %s", a.Name, ver)
	if requested {
		fmt.Fprint(a.Stdout, " (--version)")
	}
	fmt.Fprintln(a.Stdout)

	if a.Description != "" {
		fmt.Fprintf(a.Stdout, "%s | %s\n", pad, a.Description)
	}
	if a.Author != "" {
		fmt.Fprintf(a.Stdout, "%s | created by %s\n", pad, a.Author)
	}
	if everything {
		fmt.Fprintf(a.Stdout, "%s | settings: %s\n", pad, a.settingsPath())
		if a.enabled(ArgEnv) {
			fmt.Fprintf(a.Stdout, "%s | environment prefix: %s\n", pad, a.envPrefix())
		}
	}
	if a.enabled(ArgHelp) && !requested && !set.Exists(ArgEnv) {
		fmt.Fprintf(a.Stdout, "%s | display usage information (--help)\n", pad)
	}
	fmt.Fprintln(a.Stdout)
}

// keyForm renders how d is written on the command line.
func keyForm(d *argbind.Declaration) string {
	if d.Mode == argbind.Positional {
		if d.Required {
			return "<" + d.Name + ">"
		}
		return "[<" + d.Name + ">]"
	}
	keys := d.Keys()
	forms := make([]string, len(keys))
	prefix := "-"
	if d.Mode == argbind.NameOnly {
		prefix = "/"
	}
	for i, k := range keys {
		forms[i] = prefix + k
	}
	s := strings.Join(forms, ", ")
	if d.Mode == argbind.NameOnly {
		return s
	}
	label := d.ValueLabel
	if label == "" {
		label = d.Kind.String()
	}
	if d.Mode == argbind.NameValueRequired {
		return s + " <" + label + ">"
	}
	return s + " [<" + label + ">]"
}

func matchesContext(d *argbind.Declaration, context string) bool {
	if strings.EqualFold(d.Name, context) {
		return true
	}
	return slices.ContainsFunc(d.Keys(), func(k string) bool {
		return strings.EqualFold(k, context)
	})
}

func (a *App) writeUsage(decls []argbind.Declaration, context string, showHidden bool) {
	c := a.color(a.Stdout)
	sorted := argbind.SortForDisplay(decls)

	if context != "" {
		for i := range sorted {
			d := &sorted[i]
			if !d.Disabled && matchesContext(d, context) {
				a.writeDetail(d)
				return
			}
		}
	}

	usage := a.Usage
	if usage == "" {
		var pos []string
		for i := range sorted {
			if d := &sorted[i]; !d.Disabled && d.Mode == argbind.Positional {
				pos = append(pos, keyForm(d))
			}
		}
		usage = strings.Join(append([]string{"[options]"}, pos...), " ")
	}
	fmt.Fprintln(a.Stdout, c.Heading("USAGE:"))
	fmt.Fprintf(a.Stdout, "  %s %s\n\n", a.Name, usage)

	fmt.Fprintln(a.Stdout, c.Heading("OPTIONS:"))
	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 2, ' ', 0)
	for i := range sorted {
		d := &sorted[i]
		if d.Disabled || (d.Hidden && !showHidden) {
			continue
		}
		desc := d.Description
		if d.Required {
			desc += " (required)"
		}
		form := keyForm(d)
		if d.Hidden {
			form = c.Dim(form)
		}
		fmt.Fprintf(tw, "  %s\t%s\n", form, desc)
		for _, ch := range d.Allowed {
			if ch.Value == "" {
				continue
			}
			fmt.Fprintf(tw, "  \t  %s\t%s\n", ch.Value, ch.Help)
		}
	}
	tw.Flush()

	if len(a.Examples) > 0 {
		fmt.Fprintln(a.Stdout)
		fmt.Fprintln(a.Stdout, c.Heading("EXAMPLES:"))
		for _, ex := range a.Examples {
			fmt.Fprintf(a.Stdout, "  %s\n", ex)
		}
	}
}

// writeDetail prints everything known about a single argument.
func (a *App) writeDetail(d *argbind.Declaration) {
	c := a.color(a.Stdout)
	fmt.Fprintln(a.Stdout, c.Heading(strings.ToUpper(d.Name)+":"))
	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  usage\t%s\n", keyForm(d))
	if d.Description != "" {
		fmt.Fprintf(tw, "  description\t%s\n", d.Description)
	}
	fmt.Fprintf(tw, "  type\t%s\n", d.Kind)
	if def := cmdline.Format(d.DefaultValue()); def != "" && d.Mode != argbind.NameOnly {
		fmt.Fprintf(tw, "  default\t%s\n", def)
	}
	if d.Required {
		fmt.Fprintf(tw, "  required\tyes\n")
	}
	if d.AllowEnv && a.enabled(ArgEnv) {
		fmt.Fprintf(tw, "  environment\t%s\n", env.Key(a.envPrefix(), d.Primary()))
	}
	if d.AllowConfig && a.enabled(ArgConfig) {
		fmt.Fprintf(tw, "  settings key\t%s\n", d.Primary())
	}
	for i, ch := range d.Allowed {
		label := ""
		if i == 0 {
			label = "values"
		}
		v := ch.Value
		if v == "" {
			v = `""`
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", label, v, ch.Help)
	}
	tw.Flush()
	if d.MissingText != "" {
		fmt.Fprintf(a.Stdout, "\n%s\n", d.MissingText)
	}
}

func (a *App) writeEnv(decls []argbind.Declaration) {
	c := a.color(a.Stdout)
	prefix := a.envPrefix()
	fmt.Fprintln(a.Stdout, c.Heading("ENVIRONMENT VARIABLES:"))

	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 1, ' ', 0)
	declared := make(map[string]bool)
	for _, d := range argbind.SortForDisplay(decls) {
		if d.Disabled || !d.AllowEnv || d.Primary() == "" {
			continue
		}
		key := env.Key(prefix, d.Primary())
		declared[key] = true
		if v, ok := os.LookupEnv(key); ok {
			fmt.Fprintf(tw, "  %s\t%s\n", key, v)
		} else {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Dim(key), c.Dim("<not set>"))
		}
	}
	for _, v := range env.List(prefix) {
		if !declared[v.Key] {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", v.Key, v.Value, c.Warn("(unused)"))
		}
	}
	tw.Flush()
}

// writeConfig displays the settings store in the requested form.
func (a *App) writeConfig(decls []argbind.Declaration, set *argbind.Set, store *settings.Store, form string) error {
	switch form {
	case "", ConfigRead:
		return a.writeSavedConfig(decls, store)
	case ConfigEnv:
		var vars []env.Var
		for _, d := range argbind.SortForDisplay(decls) {
			if d.Disabled || !d.AllowEnv || d.Primary() == "" {
				continue
			}
			vars = append(vars, env.Var{
				Key:   env.Key(a.envPrefix(), d.Primary()),
				Value: set.String(d.Name),
			})
		}
		return env.Marshal(a.Stdout, vars)
	}
	f, err := settings.ParseFormat(form)
	if err != nil {
		return err
	}
	if store == nil {
		store = settings.New("")
	}
	return store.Encode(a.Stdout, f)
}

func (a *App) writeSavedConfig(decls []argbind.Declaration, store *settings.Store) error {
	c := a.color(a.Stdout)
	path := "<none>"
	if store != nil {
		path = store.Path()
	}
	fmt.Fprintf(a.Stdout, "%s %s\n", c.Heading("SAVED CONFIG:"), path)
	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 1, ' ', 0)
	for _, d := range argbind.SortForDisplay(decls) {
		if d.Disabled || !d.AllowConfig || d.Primary() == "" {
			continue
		}
		key := d.Primary()
		var (
			v  string
			ok bool
		)
		if store != nil {
			v, ok = store.Text(key)
		}
		if ok {
			fmt.Fprintf(tw, "  %s\t= %s\n", key, v)
		} else {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Dim(key), c.Dim("<not set>"))
		}
	}
	return tw.Flush()
}
