// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// popmenu lists the contents of a folder as a sorted menu. File names can
// carry a sort key: with -key ']' the file "10]report.pdf" sorts by its
// full name but is displayed as "report".
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/conapp/pkg/argbind"
	"github.com/yeetrun/conapp/pkg/cli"
	"github.com/yeetrun/conapp/pkg/cmdline"
	"github.com/yeetrun/conapp/pkg/fileutil"
)

// subfolderMarker hides an entry unless subfolders are included.
const subfolderMarker = "[#s]"

type options struct {
	Folder     string   `arg:"folder"`
	Subfolders bool     `arg:"subfolders"`
	Combine    bool     `arg:"combine"`
	Ext        bool     `arg:"ext"`
	Search     bool     `arg:"search"`
	Filter     string   `arg:"filter"`
	Key        string   `arg:"key"`
	Files      []string `arg:"files"`
}

type item struct {
	Name string
	Text string
	Dir  bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := newApp().Main(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}

func newApp() *cli.App {
	app := cli.New("popmenu")
	app.Description = "Lists a folder as a sorted menu."
	app.Usage = "[options] [<folder>]"
	app.Examples = []string{
		`popmenu C:\Shortcuts /key:]`,
		`popmenu . -files "*.pdf;*.txt" /combine`,
		`popmenu . -files @patterns.txt`,
	}
	app.Builtin(cli.ArgVerbose).Disabled = false
	app.Builtin(cli.ArgEnv).Disabled = false

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	app.Args = []argbind.Declaration{
		{
			Name:        "folder",
			Kind:        argbind.String,
			Mode:        argbind.Positional,
			Position:    1,
			Default:     cwd,
			Description: "The folder to list. Defaults to the current folder.",
			ValueLabel:  "folder",
			Validate:    validateFolder,
		},
		{
			Name:        "subfolders",
			Aliases:     []string{"subfolders", "sub", "s", "r"},
			Kind:        argbind.Bool,
			Description: "Include sub-folders.",
			AllowConfig: true,
			AllowEnv:    true,
		},
		{
			Name:        "combine",
			Aliases:     []string{"combine", "c"},
			Kind:        argbind.Bool,
			Description: "Sort folders and files together instead of folders first.",
			AllowConfig: true,
			AllowEnv:    true,
		},
		{
			Name:        "ext",
			Aliases:     []string{"ext", "e"},
			Kind:        argbind.Bool,
			Description: "Show file extensions.",
			AllowConfig: true,
			AllowEnv:    true,
		},
		{
			Name:        "search",
			Kind:        argbind.Bool,
			Default:     true,
			Description: "Allow the menu to be narrowed with -filter.",
			AllowConfig: true,
		},
		{
			Name:        "filter",
			Kind:        argbind.String,
			Description: "Only list entries whose displayed text contains this text.",
			ValueLabel:  "text",
		},
		{
			Name:        "key",
			Aliases:     []string{"key", "k"},
			Kind:        argbind.String,
			Default:     "]",
			Description: "Everything up to and including the key is removed from displayed names.",
			ValueLabel:  "char",
			AllowConfig: true,
			AllowEnv:    true,
		},
		{
			Name:        "files",
			Aliases:     []string{"files", "file", "f"},
			Kind:        argbind.String,
			Default:     "*.*",
			Description: "File patterns to list, separated by ';'. Use @file to read patterns from a file.",
			ValueLabel:  "pattern",
			AllowConfig: true,
			AllowEnv:    true,
			Validate:    validateFiles,
		},
	}
	app.Run = run
	return app
}

func validateFolder(_ *argbind.Set, r *argbind.Resolved) error {
	ok, err := fileutil.IsDir(r.String())
	if err != nil {
		return err
	}
	if !ok {
		return argbind.Fail(2, "folder not found: %s", r.String())
	}
	return nil
}

// validateFiles expands @file references and checks every pattern. The
// expanded list replaces the resolved value.
func validateFiles(_ *argbind.Set, r *argbind.Resolved) error {
	var patterns []string
	for p := range strings.SplitSeq(r.String(), ";") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if name, ok := strings.CutPrefix(p, "@"); ok {
			lines, err := cmdline.ReadValuesFromFile(name)
			if err != nil {
				return argbind.Fail(2, "failed to read patterns: %v", err)
			}
			for _, l := range lines {
				if l = strings.TrimSpace(l); l != "" {
					patterns = append(patterns, l)
				}
			}
			continue
		}
		patterns = append(patterns, p)
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return argbind.Fail(2, "invalid file pattern %q: %v", p, err)
		}
	}
	if len(patterns) == 0 {
		patterns = []string{"*.*"}
	}
	r.Value = strings.Join(patterns, ";")
	return nil
}

func run(ctx context.Context, inv *cli.Invocation) error {
	var o options
	if err := inv.Args.Decode(&o); err != nil {
		return err
	}
	if !o.Search && o.Filter != "" {
		inv.Logger.Warn("ignoring -filter because search is off", "filter", o.Filter)
		o.Filter = ""
	}
	inv.Logger.Debug("building menu", "folder", o.Folder, "files", o.Files)

	items, err := buildMenu(ctx, o)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(inv.Stdout, "(empty)")
		return nil
	}
	tw := tabwriter.NewWriter(inv.Stdout, 0, 4, 2, ' ', 0)
	for i, it := range items {
		text := it.Text
		if it.Dir {
			text += string(filepath.Separator)
		}
		fmt.Fprintf(tw, "%3d\t%s\n", i+1, text)
	}
	return tw.Flush()
}

func buildMenu(ctx context.Context, o options) ([]item, error) {
	entries, err := os.ReadDir(o.Folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}
	var items []item
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		dir := e.IsDir()
		if dir && !o.Subfolders {
			continue
		}
		if !dir && !matchAny(o.Files, name) {
			continue
		}
		base := name
		if strings.Contains(base, subfolderMarker) {
			if !o.Subfolders {
				continue
			}
			base = strings.TrimSpace(strings.ReplaceAll(base, subfolderMarker, ""))
		}
		text := displayText(base, dir, o)
		if o.Filter != "" && !strings.Contains(strings.ToLower(text), strings.ToLower(o.Filter)) {
			continue
		}
		items = append(items, item{Name: name, Text: text, Dir: dir})
	}

	slices.SortFunc(items, func(a, b item) int {
		if !o.Combine && a.Dir != b.Dir {
			if a.Dir {
				return -1
			}
			return 1
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return items, nil
}

func displayText(name string, dir bool, o options) string {
	text := name
	if !dir && !o.Ext {
		text = strings.TrimSuffix(text, filepath.Ext(text))
	}
	if o.Key != "" {
		if _, after, ok := strings.Cut(text, o.Key); ok {
			text = strings.TrimSpace(after)
		}
	}
	return text
}

// matchAny reports whether name matches one of patterns, ignoring case.
// "*.*" matches every name, with or without an extension.
func matchAny(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, p := range patterns {
		if p == "*.*" || p == "*" {
			return true
		}
		if ok, _ := filepath.Match(strings.ToLower(p), name); ok {
			return true
		}
	}
	return false
}
