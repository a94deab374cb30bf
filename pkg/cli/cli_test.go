// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yeetrun/conapp/pkg/argbind"
)

type testApp struct {
	*App
	stdout, stderr bytes.Buffer
	ran            *Invocation
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ta := &testApp{App: New("demo")}
	ta.Version = "v1.2.3"
	ta.Description = "Demo application."
	ta.SettingsPath = filepath.Join(t.TempDir(), "demo.settings")
	ta.Stdin = strings.NewReader("\n")
	ta.Stdout = &ta.stdout
	ta.Stderr = &ta.stderr
	ta.Args = []argbind.Declaration{
		{Name: "name", Aliases: []string{"name", "n"}, Description: "Who to greet.", AllowConfig: true, AllowEnv: true, Default: "world"},
		{Name: "count", Kind: argbind.Int, Default: 1, AllowConfig: true},
		{Name: "file", Mode: argbind.Positional, Position: 1},
	}
	ta.Run = func(ctx context.Context, inv *Invocation) error {
		ta.ran = inv
		return nil
	}
	return ta
}

func TestMainRun(t *testing.T) {
	ta := newTestApp(t)
	code := ta.Main(context.Background(), []string{"-n", "bob", "in.txt", "/nologo"})
	if code != 0 {
		t.Fatalf("Main = %d, want 0; stderr: %s", code, ta.stderr.String())
	}
	if ta.ran == nil {
		t.Fatalf("Run not called")
	}
	if got := ta.ran.Args.String("name"); got != "bob" {
		t.Errorf("name = %q, want bob", got)
	}
	if got := ta.ran.Args.String("file"); got != "in.txt" {
		t.Errorf("file = %q, want in.txt", got)
	}
	if got := ta.ran.Args.Int("count"); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if ta.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want no title with /nologo", ta.stdout.String())
	}
}

func TestMainTitle(t *testing.T) {
	ta := newTestApp(t)
	if code := ta.Main(context.Background(), nil); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	want := "demo | version: 1.2.3\n     | Demo application.\n     | display usage information (--help)\n\n"
	if got := ta.stdout.String(); got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
}

func TestMainHelp(t *testing.T) {
	ta := newTestApp(t)
	if code := ta.Main(context.Background(), []string{"/?"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if ta.ran != nil {
		t.Errorf("Run called for help")
	}
	out := ta.stdout.String()
	for _, want := range []string{"USAGE:", "demo [options] [<file>]", "-name, -n [<string>]", "Who to greet.", "/version, /ver"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/debug") {
		t.Errorf("help output shows hidden argument:\n%s", out)
	}
}

func TestMainHelpContext(t *testing.T) {
	ta := newTestApp(t)
	ta.Builtin(ArgEnv).Disabled = false
	if code := ta.Main(context.Background(), []string{"-help", "n"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	out := ta.stdout.String()
	for _, want := range []string{"NAME:", "Who to greet.", "default", "world", "demo_name", "settings key"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q:\n%s", want, out)
		}
	}
}

func TestMainHidden(t *testing.T) {
	ta := newTestApp(t)
	if code := ta.Main(context.Background(), []string{"/hidden"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	out := ta.stdout.String()
	if !strings.Contains(out, "/debug") || !strings.Contains(out, "settings: "+ta.SettingsPath) {
		t.Errorf("hidden output incomplete:\n%s", out)
	}
}

func TestMainVersion(t *testing.T) {
	ta := newTestApp(t)
	if code := ta.Main(context.Background(), []string{"/ver"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if !strings.HasPrefix(ta.stdout.String(), "demo | version: 1.2.3") {
		t.Errorf("stdout = %q", ta.stdout.String())
	}
	if ta.ran != nil {
		t.Errorf("Run called for version")
	}
}

func TestMainMissingRequired(t *testing.T) {
	ta := newTestApp(t)
	ta.Args[2].Required = true
	code := ta.Main(context.Background(), nil)
	if code != argbind.ExitMissingRequired {
		t.Errorf("Main = %d, want %d", code, argbind.ExitMissingRequired)
	}
	if !strings.Contains(ta.stderr.String(), `missing required argument "file"`) {
		t.Errorf("stderr = %q", ta.stderr.String())
	}
	if !strings.Contains(ta.stdout.String(), "FILE:") {
		t.Errorf("usage for the failing argument not shown:\n%s", ta.stdout.String())
	}
}

func TestMainDuplicateBuiltin(t *testing.T) {
	ta := newTestApp(t)
	ta.Args = append(ta.Args, argbind.Declaration{Name: "pretty", Aliases: []string{"p"}})
	if code := ta.Main(context.Background(), nil); code != argbind.ExitDuplicateKey {
		t.Errorf("Main = %d, want %d", code, argbind.ExitDuplicateKey)
	}
}

func TestMainConfigWriteRead(t *testing.T) {
	ta := newTestApp(t)
	if code := ta.Main(context.Background(), []string{"-config", "write", "-name", "alice", "-count", "3", "/nologo"}); code != 0 {
		t.Fatalf("config write: Main = %d; stderr: %s", code, ta.stderr.String())
	}
	if ta.ran == nil {
		t.Errorf("Run not called after config write")
	}
	b, err := os.ReadFile(ta.SettingsPath)
	if err != nil {
		t.Fatalf("settings not written: %v", err)
	}
	if got, want := string(b), "nologo=true\npause=false\nname=alice\ncount=3\n"; got != want {
		t.Errorf("settings = %q, want %q", got, want)
	}

	ta = newTestApp(t)
	if err := os.WriteFile(ta.SettingsPath, b, 0644); err != nil {
		t.Fatal(err)
	}
	if code := ta.Main(context.Background(), nil); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if got := ta.ran.Args.String("name"); got != "alice" {
		t.Errorf("name from settings = %q, want alice", got)
	}
	if ta.stdout.Len() != 0 {
		t.Errorf("title shown although nologo was saved: %q", ta.stdout.String())
	}

	ta.stdout.Reset()
	ta.ran = nil
	if code := ta.Main(context.Background(), []string{"/config"}); code != 0 {
		t.Fatalf("config read: Main = %d", code)
	}
	if ta.ran != nil {
		t.Errorf("Run called for config read")
	}
	out := ta.stdout.String()
	if !strings.Contains(out, "SAVED CONFIG:") || !strings.Contains(out, "= alice") {
		t.Errorf("config output = %q", out)
	}
}

func TestMainConfigFormats(t *testing.T) {
	ta := newTestApp(t)
	if err := os.WriteFile(ta.SettingsPath, []byte("name=alice\ncount=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if code := ta.Main(context.Background(), []string{"/config:json", "/nologo"}); code != 0 {
		t.Fatalf("Main = %d; stderr: %s", code, ta.stderr.String())
	}
	if !strings.Contains(ta.stdout.String(), `"name": "alice"`) {
		t.Errorf("json output = %q", ta.stdout.String())
	}

	ta.stdout.Reset()
	if code := ta.Main(context.Background(), []string{"-config", "env"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if !strings.Contains(ta.stdout.String(), "demo_name=alice\n") {
		t.Errorf("env output = %q", ta.stdout.String())
	}

	ta.stdout.Reset()
	ta.stderr.Reset()
	if code := ta.Main(context.Background(), []string{"-config", "xml"}); code != argbind.ExitInvalidValue {
		t.Errorf("Main = %d, want %d", code, argbind.ExitInvalidValue)
	}
}

func TestMainEnv(t *testing.T) {
	ta := newTestApp(t)
	t.Setenv("demo_name", "from-env")

	if code := ta.Main(context.Background(), []string{"/nologo"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if got := ta.ran.Args.String("name"); got != "world" {
		t.Errorf("name with env source disabled = %q, want world", got)
	}

	ta.Builtin(ArgEnv).Disabled = false
	if code := ta.Main(context.Background(), []string{"/nologo"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if got := ta.ran.Args.String("name"); got != "from-env" {
		t.Errorf("name = %q, want from-env", got)
	}

	ta.stdout.Reset()
	if code := ta.Main(context.Background(), []string{"/set"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if !strings.Contains(ta.stdout.String(), "demo_name from-env") {
		t.Errorf("env listing = %q", ta.stdout.String())
	}
}

func TestMainDotEnv(t *testing.T) {
	ta := newTestApp(t)
	ta.Builtin(ArgEnv).Disabled = false
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("demo_name=dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("demo_name", "")
	os.Unsetenv("demo_name")
	ta.DotEnv = []string{path}
	if code := ta.Main(context.Background(), []string{"/nologo"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if got := ta.ran.Args.String("name"); got != "dotenv" {
		t.Errorf("name = %q, want dotenv", got)
	}
}

func TestMainRunError(t *testing.T) {
	ta := newTestApp(t)
	ta.Run = func(ctx context.Context, inv *Invocation) error {
		return argbind.Fail(4, "nothing to do")
	}
	if code := ta.Main(context.Background(), []string{"/nologo"}); code != 4 {
		t.Errorf("Main = %d, want 4", code)
	}
	if !strings.Contains(ta.stderr.String(), "nothing to do") {
		t.Errorf("stderr = %q", ta.stderr.String())
	}

	ta.Run = func(ctx context.Context, inv *Invocation) error {
		return errors.New("plain")
	}
	if code := ta.Main(context.Background(), []string{"/nologo"}); code != 1 {
		t.Errorf("Main = %d, want 1", code)
	}
}

func TestMainPause(t *testing.T) {
	ta := newTestApp(t)
	if code := ta.Main(context.Background(), []string{"/p", "/nologo"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if !strings.Contains(ta.stdout.String(), pauseMessage) {
		t.Errorf("stdout = %q, want pause prompt", ta.stdout.String())
	}

	ta.Builtin(ArgQuiet).Disabled = false
	ta.stdout.Reset()
	if code := ta.Main(context.Background(), []string{"/p", "/q"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	if ta.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing with /quiet", ta.stdout.String())
	}
}

func TestMainLogFile(t *testing.T) {
	ta := newTestApp(t)
	logPath := filepath.Join(t.TempDir(), "demo.log")
	if code := ta.Main(context.Background(), []string{"/debug", "-logfile", logPath, "/nologo"}); code != 0 {
		t.Fatalf("Main = %d", code)
	}
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(b), "argument resolved") {
		t.Errorf("log = %q, want resolver trace", b)
	}
}

func TestAppVersion(t *testing.T) {
	a := New("x")
	for in, want := range map[string]string{"v1.2.3": "1.2.3", "2.0": "2.0.0", "nightly": "nightly"} {
		a.Version = in
		if got := a.AppVersion(); got != want {
			t.Errorf("AppVersion(%q) = %q, want %q", in, got, want)
		}
	}
	a.Version = ""
	if got := a.AppVersion(); got == "" {
		t.Errorf("AppVersion() with no version is empty")
	}
}
