// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/yeetrun/conapp/pkg/settings"
)

// WriteConfig stores the value of every enabled AllowConfig declaration in
// store under its primary alias and writes the settings file.
func WriteConfig(decls []Declaration, set *Set, store *settings.Store) error {
	if store == nil {
		return errors.New("no settings store")
	}
	for i := range decls {
		d := &decls[i]
		if d.Disabled || !d.AllowConfig {
			continue
		}
		primary := d.Primary()
		if primary == "" {
			continue
		}
		r, ok := set.Lookup(d.Name)
		if !ok {
			continue
		}
		store.Set(primary, r.Value)
	}
	return store.Write()
}

// SortForDisplay returns decls ordered by group, sort index and name.
func SortForDisplay(decls []Declaration) []Declaration {
	out := slices.Clone(decls)
	slices.SortStableFunc(out, func(a, b Declaration) int {
		return cmp.Or(
			cmp.Compare(a.Group, b.Group),
			cmp.Compare(a.SortIndex, b.SortIndex),
			strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		)
	})
	return out
}
