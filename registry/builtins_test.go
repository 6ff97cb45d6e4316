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
	"errors"
	"testing"

	"github.com/arbortick/bt"
)

func TestRegisterBuiltinsTimeoutRejectsNonPositiveTimeout(t *testing.T) {
	r := New()
	RegisterBuiltins(r)
	_, err := r.Create(NodeDef{
		Type:   "Timeout",
		Config: map[string]any{"timeout_ms": 0},
		Children: []NodeDef{
			{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}},
		},
	})
	var cfgErr *bt.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError for a non-positive timeout_ms, got %v", err)
	}
}

func TestRegisterBuiltinsTimeoutAcceptsFloat64FromYAMLDecode(t *testing.T) {
	r := New()
	RegisterBuiltins(r)
	n, err := r.Create(NodeDef{
		Type:   "Timeout",
		Config: map[string]any{"timeout_ms": float64(500)},
		Children: []NodeDef{
			{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Type != "Timeout" {
		t.Fatalf("Type = %q, want Timeout", n.Type)
	}
}

func TestRegisterBuiltinsRetryDefaultsToZeroWithoutMaxAttempts(t *testing.T) {
	r := New()
	RegisterBuiltins(r)
	n, err := r.Create(NodeDef{
		Type: "Retry",
		Children: []NodeDef{
			{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Type != "Retry" {
		t.Fatalf("Type = %q, want Retry", n.Type)
	}
}

func TestRegisterBuiltinsSubTreeCarriesTreeIDThrough(t *testing.T) {
	r := New()
	RegisterBuiltins(r)
	n, err := r.Create(NodeDef{
		Type:   "SubTree",
		Config: map[string]any{"tree_id": "some-tree"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if treeID, _ := n.ConfigString("tree_id"); treeID != "some-tree" {
		t.Fatalf("tree_id = %q, want some-tree", treeID)
	}
}

func TestRegisterBuiltinsConditionalAcceptsOptionalElseBranch(t *testing.T) {
	r := New()
	RegisterBuiltins(r)
	withoutElse, err := r.Create(NodeDef{
		Type: "Conditional",
		Children: []NodeDef{
			{Type: "ForceSuccess", Children: []NodeDef{{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}}}},
			{Type: "ForceSuccess", Children: []NodeDef{{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error (2 children): %v", err)
	}
	if len(withoutElse.Children) != 2 {
		t.Fatalf("expected 2 children without an else branch, got %d", len(withoutElse.Children))
	}

	withElse, err := r.Create(NodeDef{
		Type: "Conditional",
		Children: []NodeDef{
			{Type: "ForceSuccess", Children: []NodeDef{{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}}}},
			{Type: "ForceSuccess", Children: []NodeDef{{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}}}},
			{Type: "ForceFailure", Children: []NodeDef{{Type: "Invert", Children: []NodeDef{{Type: "SubTree", Config: map[string]any{"tree_id": "leaf"}}}}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error (3 children): %v", err)
	}
	if len(withElse.Children) != 3 {
		t.Fatalf("expected 3 children with an else branch, got %d", len(withElse.Children))
	}
}
