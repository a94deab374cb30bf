// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is an export format for Encode.
type Format string

const (
	Plain Format = "plain"
	JSON  Format = "json"
	TOML  Format = "toml"
	YAML  Format = "yaml"
)

// Formats lists every supported export format.
var Formats = []Format{Plain, JSON, TOML, YAML}

// ParseFormat returns the format named by s. The empty string is Plain.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return Plain, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown settings format %q", s)
}

// Map returns the typed settings as a map.
func (s *Store) Map() map[string]any {
	m := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		if v := s.m[k].value; v != nil {
			m[k] = v
		}
	}
	return m
}

// Encode writes s to w in format f.
func (s *Store) Encode(w io.Writer, f Format) error {
	switch f {
	case Plain, "":
		_, err := s.WriteTo(w)
		return err
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s.Map())
	case TOML:
		return toml.NewEncoder(w).Encode(s.Map())
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s.yamlNode()); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown settings format %q", f)
}

// yamlNode builds a mapping node so keys keep file order.
func (s *Store) yamlNode() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range s.keys {
		v := s.m[k].value
		if v == nil {
			continue
		}
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			val = yaml.Node{Kind: yaml.ScalarNode, Value: encodeValue(v)}
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &val)
	}
	return n
}
