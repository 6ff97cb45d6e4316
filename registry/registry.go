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

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arbortick/bt"
)

type typeEntry struct {
	meta Metadata
	ctor Constructor
}

// Registry holds the set of known node type Constructors and named tree
// templates. The zero value is not usable; construct with New.
type Registry struct {
	mu    sync.RWMutex
	types map[string]typeEntry
	trees map[string]TreeDef
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		types: make(map[string]typeEntry),
		trees: make(map[string]TreeDef),
	}
}

// Register adds or replaces the Constructor for a node type.
func (r *Registry) Register(typeName string, meta Metadata, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[typeName] = typeEntry{meta: meta, ctor: ctor}
}

// Has reports whether typeName has a registered Constructor.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[typeName]
	return ok
}

// GetMetadata returns the Metadata registered for typeName.
func (r *Registry) GetMetadata(typeName string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[typeName]
	return e.meta, ok
}

// GetTypesByCategory returns the registered type names in category,
// sorted for deterministic iteration.
func (r *Registry) GetTypesByCategory(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, e := range r.types {
		if e.meta.Category == category {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Create builds one node of typeName from def, recursively building its
// children first, enforcing the registered arity, and assigning an
// auto-generated id when def.ID is blank.
func (r *Registry) Create(def NodeDef) (*bt.BaseNode, error) {
	r.mu.RLock()
	entry, ok := r.types[def.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, &bt.ConfigurationError{Message: fmt.Sprintf("unregistered node type %q", def.Type)}
	}

	children := make([]*bt.BaseNode, 0, len(def.Children))
	for _, cd := range def.Children {
		child, err := r.Create(cd)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if !entry.meta.allows(len(children)) {
		return nil, &bt.ConfigurationError{Message: fmt.Sprintf(
			"node type %q requires between %d and %d children, got %d",
			def.Type, entry.meta.MinChildren, entry.meta.MaxChildren, len(children))}
	}

	id := def.ID
	if id == "" {
		id = bt.NextAutoID(def.Type)
	}
	n, err := entry.ctor(id, def.Config, children)
	if err != nil {
		return nil, err
	}
	if def.Name != "" {
		n.WithName(def.Name)
	}
	return n, nil
}

// CreateTree is an alias for Create taking a tree's root NodeDef,
// documenting the entry point used to materialize a TreeDef.Root.
func (r *Registry) CreateTree(def NodeDef) (*bt.BaseNode, error) {
	return r.Create(def)
}

// RegisterTree stores a named tree definition for later resolution by
// CloneTree (and, transitively, by SubTree nodes referencing it).
func (r *Registry) RegisterTree(def TreeDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees[def.ID] = def
}

// HasTree reports whether treeID has a registered definition.
func (r *Registry) HasTree(treeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.trees[treeID]
	return ok
}

// CloneTree implements bt.TreeRegistry: it rebuilds a fresh node instance
// tree from the stored definition every call, so concurrent or repeated
// SubTree attachments never share mutable Behavior state.
func (r *Registry) CloneTree(treeID string) (bt.Node, error) {
	r.mu.RLock()
	def, ok := r.trees[treeID]
	r.mu.RUnlock()
	if !ok {
		return nil, &bt.ConfigurationError{Message: fmt.Sprintf("unregistered tree %q", treeID)}
	}
	root, err := r.CreateTree(def.Root)
	if err != nil {
		return nil, err
	}
	return root.Node(), nil
}

// Clear removes every registered node type.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = make(map[string]typeEntry)
}

// ClearTrees removes every registered tree definition.
func (r *Registry) ClearTrees() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees = make(map[string]TreeDef)
}
