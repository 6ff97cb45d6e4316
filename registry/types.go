/*
   Copyright 2019 Joseph Cumines

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package registry provides the declarative node/tree construction layer:
// a Constructor table keyed by node type, a recursive tree builder with
// auto-id generation and arity enforcement, named tree templates resolved
// by SubTree at tick time, and a multi-stage YAML loader.
package registry

import (
	"github.com/arbortick/bt"
	"github.com/google/uuid"
)

// Constructor builds one BaseNode of a registered type from its config bag
// and already-built children. Concrete node packages (composite,
// decorator, action) are adapted to this uniform shape by the functions in
// builtins.go.
type Constructor func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error)

// Metadata describes a registered node type: its category (for
// introspection/tooling) and the arity the registry enforces before
// calling its Constructor. MaxChildren < 0 means unbounded.
type Metadata struct {
	Category    string
	MinChildren int
	MaxChildren int
}

func (m Metadata) allows(n int) bool {
	if n < m.MinChildren {
		return false
	}
	if m.MaxChildren >= 0 && n > m.MaxChildren {
		return false
	}
	return true
}

// NodeDef is the declarative, serializable description of one node in a
// tree definition - the shape produced by unmarshalling YAML/JSON tree
// files. ID may be left blank, in which case CreateTree assigns one via
// bt.NextAutoID(Type).
type NodeDef struct {
	ID       string         `yaml:"id,omitempty" json:"id,omitempty"`
	Type     string         `yaml:"type" json:"type"`
	Name     string         `yaml:"name,omitempty" json:"name,omitempty"`
	Config   map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
	Children []NodeDef      `yaml:"children,omitempty" json:"children,omitempty"`
}

// TreeDef is a named, top-level tree definition: a tree_id and its root
// node definition, as registered with a Registry and resolved by SubTree
// nodes at tick time.
type TreeDef struct {
	ID   string  `yaml:"id" json:"id"`
	Root NodeDef `yaml:"root" json:"root"`
}

// NewUniqueTreeID returns a random UUID-based tree id, for callers
// registering anonymous/ad-hoc trees (e.g. dynamically generated
// sub-plans) that don't need a stable, human-chosen id.
func NewUniqueTreeID() string {
	return uuid.NewString()
}
