// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli runs console applications: it parses the command line,
// resolves the application's arguments and handles the built-in help,
// version, config and env arguments before calling the application.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/yeetrun/conapp/pkg/argbind"
	"github.com/yeetrun/conapp/pkg/cmdline"
	"github.com/yeetrun/conapp/pkg/cmdutil"
	"github.com/yeetrun/conapp/pkg/env"
	"github.com/yeetrun/conapp/pkg/settings"
	"github.com/yeetrun/conapp/pkg/tui"
)

// Names of the built-in arguments.
const (
	ArgHelp    = "help"
	ArgHidden  = "hidden"
	ArgVersion = "version"
	ArgConfig  = "config"
	ArgDebug   = "debug"
	ArgNoLogo  = "nologo"
	ArgPause   = "pause"
	ArgVerbose = "verbose"
	ArgQuiet   = "quiet"
	ArgEnv     = "env"
	ArgLogFile = "logfile"
)

// Values of the config argument.
const (
	ConfigRead  = "read"
	ConfigWrite = "write"
	ConfigEnv   = "env"
)

const pauseMessage = "Press any key to continue: "

// Invocation is what an application's Run function receives.
type Invocation struct {
	Args     *argbind.Set
	Raw      *cmdline.Store
	Settings *settings.Store
	Logger   hclog.Logger
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// App is a console application.
type App struct {
	Name        string
	Description string
	Author      string
	// Version is a semantic version. When empty the build version is used.
	Version string
	// Usage is shown after the application name in usage output.
	Usage    string
	Examples []string

	// Args are the application's own arguments.
	Args []argbind.Declaration
	Run  func(ctx context.Context, inv *Invocation) error

	// EnvPrefix prefixes environment variable names. Defaults to Name.
	EnvPrefix string
	// SettingsPath is the settings file. Defaults to the executable path
	// with a .settings suffix.
	SettingsPath string
	// DotEnv lists .env files loaded before resolution.
	DotEnv []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger hclog.Logger

	builtins []argbind.Declaration
}

// New returns an application with the built-in arguments. verbose, quiet
// and env start disabled; enable them through Builtin.
func New(name string) *App {
	return &App{
		Name:     name,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		builtins: builtins(),
	}
}

func builtins() []argbind.Declaration {
	return []argbind.Declaration{
		{
			Name:        ArgHelp,
			Aliases:     []string{"?", "help", "usage"},
			Kind:        argbind.String,
			Description: "Displays usage information. Pass an argument name for details on it.",
			ValueLabel:  "arg",
			SortIndex:   -100,
		},
		{
			Name:        ArgHidden,
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Displays all usage information, including hidden arguments.",
			Hidden:      true,
			SortIndex:   -99,
		},
		{
			Name:        ArgVersion,
			Aliases:     []string{"version", "ver"},
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Displays the version information.",
			SortIndex:   -98,
		},
		{
			Name:        ArgConfig,
			Kind:        argbind.String,
			Default:     ConfigRead,
			Description: "Displays or writes the saved settings.",
			Allowed: []argbind.Choice{
				{Value: "", Help: "same as read"},
				{Value: ConfigRead, Help: "displays the saved settings"},
				{Value: ConfigWrite, Help: "saves the current arguments to the settings file"},
				{Value: string(settings.JSON), Help: "displays the saved settings as JSON"},
				{Value: string(settings.TOML), Help: "displays the saved settings as TOML"},
				{Value: string(settings.YAML), Help: "displays the saved settings as YAML"},
				{Value: ConfigEnv, Help: "displays the current arguments as environment variables"},
			},
			SortIndex: -97,
		},
		{
			Name:        ArgDebug,
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Traces argument resolution and pauses before exit.",
			Hidden:      true,
			SortIndex:   -96,
		},
		{
			Name:        ArgNoLogo,
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Hides the application title.",
			AllowConfig: true,
			SortIndex:   -95,
		},
		{
			Name:        ArgPause,
			Aliases:     []string{"pause", "p"},
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Waits for a key press before exiting.",
			AllowConfig: true,
			SortIndex:   -94,
		},
		{
			Name:        ArgVerbose,
			Aliases:     []string{"verbose", "v"},
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Displays extra information.",
			Disabled:    true,
			SortIndex:   -93,
		},
		{
			Name:        ArgQuiet,
			Aliases:     []string{"quiet", "q"},
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Displays nothing but errors.",
			Disabled:    true,
			SortIndex:   -92,
		},
		{
			Name:        ArgEnv,
			Aliases:     []string{"env", "set"},
			Kind:        argbind.Bool,
			Mode:        argbind.NameOnly,
			Description: "Displays the environment variables the application reads.",
			Disabled:    true,
			Hidden:      true,
			SortIndex:   -91,
		},
		{
			Name:        ArgLogFile,
			Kind:        argbind.String,
			Description: "Writes diagnostic output to the given file.",
			ValueLabel:  "file",
			Hidden:      true,
			SortIndex:   -90,
		},
	}
}

// Builtin returns the built-in argument name so it can be changed, or nil.
func (a *App) Builtin(name string) *argbind.Declaration {
	for i := range a.builtins {
		if strings.EqualFold(a.builtins[i].Name, name) {
			return &a.builtins[i]
		}
	}
	return nil
}

func (a *App) enabled(name string) bool {
	d := a.Builtin(name)
	return d != nil && !d.Disabled
}

// Declarations returns the built-in and application arguments.
func (a *App) Declarations() []argbind.Declaration {
	out := make([]argbind.Declaration, 0, len(a.builtins)+len(a.Args))
	out = append(out, a.builtins...)
	return append(out, a.Args...)
}

func (a *App) envPrefix() string {
	if a.EnvPrefix != "" {
		return env.Prefix(a.EnvPrefix)
	}
	return env.Prefix(a.Name)
}

func (a *App) settingsPath() string {
	if a.SettingsPath != "" {
		return a.SettingsPath
	}
	exe, err := os.Executable()
	if err != nil {
		return a.Name + ".settings"
	}
	return exe + ".settings"
}

// present reports whether the enabled built-in name appears in raw.
func (a *App) present(raw *cmdline.Store, name string) bool {
	d := a.Builtin(name)
	return d != nil && !d.Disabled && raw.Contains(d.Keys()...)
}

// Main runs the application with the given arguments and returns the
// process exit code.
func (a *App) Main(ctx context.Context, argv []string) int {
	raw := cmdline.Parse(argv)

	log, closeLog := a.newLogger(raw)
	defer closeLog()

	if len(a.DotEnv) > 0 {
		loaded, err := env.LoadDotEnv(a.DotEnv...)
		if err != nil {
			log.Warn("failed to load .env file", "error", err)
		}
		log.Debug("loaded .env files", "files", loaded)
	}

	res := &argbind.Resolver{
		EnvPrefix: a.envPrefix(),
		Logger:    log.Named("resolve"),
	}
	var store *settings.Store
	if a.enabled(ArgConfig) {
		var err error
		store, err = settings.Load(a.settingsPath())
		if err != nil {
			fmt.Fprintf(a.Stderr, "%s\n", a.color(a.Stderr).Error(err.Error()))
			return 1
		}
		res.Settings = store
	}
	if a.enabled(ArgEnv) {
		res.Env = env.OS{}
	}

	decls := a.Declarations()
	set, err := res.Resolve(decls, raw)
	if err != nil {
		return a.outputError(decls, err)
	}

	switch {
	case a.enabled(ArgHidden) && (set.Exists(ArgHidden) || strings.EqualFold(set.String(ArgHelp), ArgHidden)):
		a.writeTitle(set, true)
		a.writeUsage(decls, "", true)
		return 0
	case a.enabled(ArgHelp) && set.Exists(ArgHelp):
		a.writeTitle(set, false)
		a.writeUsage(decls, set.String(ArgHelp), false)
		return 0
	case set.Bool(ArgVersion):
		a.writeTitle(set, false)
		return 0
	case set.Bool(ArgEnv):
		a.writeTitle(set, false)
		a.writeEnv(decls)
		return 0
	}

	cfg := strings.ToLower(set.String(ArgConfig))
	if set.Exists(ArgConfig) && cfg != ConfigWrite {
		a.writeTitle(set, false)
		if err := a.writeConfig(decls, set, store, cfg); err != nil {
			fmt.Fprintln(a.Stderr, a.color(a.Stderr).Error(err.Error()))
			return 1
		}
		return 0
	}

	quiet := set.Bool(ArgQuiet)
	if set.Bool(ArgDebug) || set.Bool(ArgVerbose) || (!set.Bool(ArgNoLogo) && !quiet) {
		a.writeTitle(set, false)
	}

	if set.Exists(ArgConfig) && cfg == ConfigWrite && store != nil {
		fmt.Fprintf(a.Stdout, "%s %s\n", a.color(a.Stdout).Heading("WRITING TO CONFIG:"), store.Path())
		if err := argbind.WriteConfig(decls, set, store); err != nil {
			fmt.Fprintln(a.Stderr, a.color(a.Stderr).Error(err.Error()))
			return 1
		}
	}

	code := 0
	if a.Run != nil {
		err := a.Run(ctx, &Invocation{
			Args:     set,
			Raw:      raw,
			Settings: store,
			Logger:   log,
			Stdin:    a.Stdin,
			Stdout:   a.Stdout,
			Stderr:   a.Stderr,
		})
		if err != nil {
			fmt.Fprintf(a.Stderr, "%s %v\n", a.color(a.Stderr).Error("Error:"), err)
			code = argbind.ExitCode(err)
		}
	}

	if set.Bool(ArgDebug) || (!quiet && set.Bool(ArgPause)) {
		if err := cmdutil.Pause(a.Stdin, a.Stdout, pauseMessage); err != nil {
			log.Warn("pause failed", "error", err)
		}
	}
	return code
}

func (a *App) color(w io.Writer) tui.Colorizer {
	return tui.NewColorizer(w)
}

// outputError prints a resolution error with usage for the argument it
// concerns and returns its exit code.
func (a *App) outputError(decls []argbind.Declaration, err error) int {
	a.writeTitle(nil, false)
	fmt.Fprintf(a.Stderr, "%s %v\n\n", a.color(a.Stderr).Error("Error:"), err)
	a.writeUsage(decls, argbind.ArgumentName(err), false)
	return argbind.ExitCode(err)
}
