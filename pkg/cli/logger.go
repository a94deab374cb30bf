// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/yeetrun/conapp/pkg/cmdline"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the diagnostic logger from the raw command line, so that
// argument resolution itself can be traced. /debug selects trace output,
// /verbose debug output and /logfile:path sends everything to a rotated
// file instead of stderr.
func (a *App) newLogger(raw *cmdline.Store) (hclog.Logger, func()) {
	level := hclog.Warn
	switch {
	case a.present(raw, ArgDebug):
		level = hclog.Trace
	case a.present(raw, ArgVerbose):
		level = hclog.Debug
	}

	if a.Logger != nil {
		a.Logger.SetLevel(level)
		return a.Logger, func() {}
	}

	var (
		out     io.Writer = a.Stderr
		closeFn           = func() {}
	)
	if d := a.Builtin(ArgLogFile); d != nil && !d.Disabled {
		if path := raw.String("", d.Keys()...); path != "" {
			lj := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}
			out = lj
			closeFn = func() { lj.Close() }
		}
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   a.Name,
		Level:  level,
		Output: out,
		Color:  hclog.ColorOff,
	}), closeFn
}
