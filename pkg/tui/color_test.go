// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestColorizer(t *testing.T) {
	var buf bytes.Buffer
	if c := NewColorizer(&buf); c.Enabled {
		t.Errorf("NewColorizer(buffer).Enabled = true, want false")
	}

	off := Colorizer{}
	if got := off.Error("boom"); got != "boom" {
		t.Errorf("disabled Error = %q, want plain text", got)
	}

	on := Colorizer{Enabled: true}
	got := on.Error("boom")
	if !strings.Contains(got, "boom") || !strings.HasPrefix(got, "\x1b[31") {
		t.Errorf("enabled Error = %q, want red escape", got)
	}
	if got := on.Wrap("plain"); got != "plain" {
		t.Errorf("Wrap without attributes = %q", got)
	}
}
