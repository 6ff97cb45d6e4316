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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Loader runs declarative tree definitions through four validation stages
// before they ever reach Registry.CreateTree:
//
//  1. Syntax  - parsing the raw document (yaml.Unmarshal; stage 1 is not a
//     Loader method, since the standard decoder already owns it, but its
//     errors are wrapped as *SyntaxError for uniform handling).
//  2. Structure - the tree/node shape is well-formed, independent of any
//     registered type: non-blank types, unique node ids.
//  3. ConfigSchema - each node's config bag satisfies the JSON Schema
//     registered for its type, if any (RegisterConfigSchema).
//  4. Semantic - the node type is registered, its child count matches the
//     registered arity, and every SubTree carries a non-blank tree_id
//     (whether that tree is registered is not checked here).
//
// FailFast, when true, makes the first error abort validation; when false
// (the zero value) every stage runs to completion and all errors are
// returned together as a *MultiError.
type Loader struct {
	Registry *Registry
	FailFast bool

	schemas map[string]*jsonschema.Schema
}

// NewLoader constructs a Loader bound to reg.
func NewLoader(reg *Registry) *Loader {
	return &Loader{Registry: reg, schemas: make(map[string]*jsonschema.Schema)}
}

// RegisterConfigSchema compiles schemaJSON (a JSON Schema document) and
// associates it with typeName, so LoadTreeYAML's ConfigSchema stage
// validates that type's config bag against it.
func (l *Loader) RegisterConfigSchema(typeName string, schemaJSON []byte) error {
	compiler := jsonschema.NewCompiler()
	resourceURL := "mem://" + typeName + ".schema.json"
	if err := compiler.AddResource(resourceURL, strings.NewReader(string(schemaJSON))); err != nil {
		return fmt.Errorf("registry: compiling schema for %q: %w", typeName, err)
	}
	schema, err := compiler.Compile(resourceURL)
	if err != nil {
		return fmt.Errorf("registry: compiling schema for %q: %w", typeName, err)
	}
	l.schemas[typeName] = schema
	return nil
}

// LoadTreeYAML parses a single tree definition document. path is used only
// to annotate errors (pass a filename or a synthetic label for in-memory
// documents).
func (l *Loader) LoadTreeYAML(path string, data []byte) (TreeDef, error) {
	var raw struct {
		ID   string  `yaml:"id"`
		Root NodeDef `yaml:"root"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return TreeDef{}, &SyntaxError{Path: path, Err: err}
	}
	def := TreeDef{ID: raw.ID, Root: raw.Root}

	var errs []error
	report := func(err error) bool {
		errs = append(errs, err)
		return l.FailFast
	}

	if def.ID == "" {
		if report(&StructureError{Path: path, Message: "tree definition is missing an id"}) {
			return TreeDef{}, errs[0]
		}
	}
	seen := make(map[string]bool)
	if l.validateStructure(path, def.Root, seen, report) && l.FailFast {
		return TreeDef{}, errs[0]
	}
	if l.validateConfigSchema(path, def.Root, report) && l.FailFast {
		return TreeDef{}, errs[0]
	}
	if l.validateSemantic(path, def.Root, report) && l.FailFast {
		return TreeDef{}, errs[0]
	}

	if len(errs) > 0 {
		if l.FailFast {
			return TreeDef{}, errs[0]
		}
		return TreeDef{}, &MultiError{Errors: errs}
	}
	return def, nil
}

// validateStructure walks def checking non-registry-dependent shape
// invariants. It returns true if it reported an error (used only to let
// LoadTreeYAML short-circuit promptly in fail-fast mode).
func (l *Loader) validateStructure(path string, n NodeDef, seen map[string]bool, report func(error) bool) bool {
	reported := false
	if strings.TrimSpace(n.Type) == "" {
		if report(&StructureError{Path: path, Message: "node is missing a type"}) {
			return true
		}
		reported = true
	}
	if n.ID != "" {
		if seen[n.ID] {
			if report(&StructureError{Path: path, Message: fmt.Sprintf("duplicate node id %q", n.ID)}) {
				return true
			}
			reported = true
		}
		seen[n.ID] = true
	}
	for _, c := range n.Children {
		if l.validateStructure(path, c, seen, report) {
			reported = true
			if l.FailFast {
				return true
			}
		}
	}
	return reported
}

// validateConfigSchema walks def, validating each node's Config against
// its type's registered schema, if any.
func (l *Loader) validateConfigSchema(path string, n NodeDef, report func(error) bool) bool {
	reported := false
	if schema, ok := l.schemas[n.Type]; ok {
		doc := map[string]any(n.Config)
		if doc == nil {
			doc = map[string]any{}
		}
		if err := schema.Validate(doc); err != nil {
			if report(&ConfigError{Path: path, NodeID: n.ID, Message: err.Error()}) {
				return true
			}
			reported = true
		}
	}
	for _, c := range n.Children {
		if l.validateConfigSchema(path, c, report) {
			reported = true
			if l.FailFast {
				return true
			}
		}
	}
	return reported
}

// validateSemantic walks def, checking that every node type is registered
// and its arity matches, and that SubTree tree_id references are
// non-blank (existence of the referenced tree is intentionally not
// required here, since trees may be registered after their referrers in
// a multi-file LoadTreesFromGlob batch; SubTree itself reports a
// ConfigurationError at tick time if the reference never resolves).
func (l *Loader) validateSemantic(path string, n NodeDef, report func(error) bool) bool {
	reported := false
	if l.Registry != nil {
		meta, ok := l.Registry.GetMetadata(n.Type)
		if !ok {
			if report(&SemanticError{Path: path, NodeID: n.ID, Message: fmt.Sprintf("unregistered node type %q", n.Type)}) {
				return true
			}
			reported = true
		} else if !meta.allows(len(n.Children)) {
			if report(&SemanticError{Path: path, NodeID: n.ID, Message: fmt.Sprintf(
				"node type %q requires between %d and %d children, got %d",
				n.Type, meta.MinChildren, meta.MaxChildren, len(n.Children))}) {
				return true
			}
			reported = true
		}
	}
	if n.Type == "SubTree" {
		if treeID, _ := n.Config["tree_id"].(string); treeID == "" {
			if report(&SemanticError{Path: path, NodeID: n.ID, Message: "SubTree requires a non-blank tree_id"}) {
				return true
			}
			reported = true
		}
	}
	for _, c := range n.Children {
		if l.validateSemantic(path, c, report) {
			reported = true
			if l.FailFast {
				return true
			}
		}
	}
	return reported
}

// LoadTreesFromGlob reads every file matching pattern under root (a
// doublestar glob, e.g. "trees/**/*.yaml") and parses each as a TreeDef,
// returning them keyed by tree id.
func LoadTreesFromGlob(fsys fs.FS, root, pattern string) (map[string]TreeDef, error) {
	matches, err := doublestar.Glob(fsys, filepath.ToSlash(filepath.Join(root, pattern)))
	if err != nil {
		return nil, fmt.Errorf("registry: globbing %s: %w", pattern, err)
	}
	loader := NewLoader(nil)
	out := make(map[string]TreeDef, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("registry: reading %s: %w", m, err)
		}
		def, err := loader.LoadTreeYAML(m, data)
		if err != nil {
			return nil, err
		}
		out[def.ID] = def
	}
	return out, nil
}
