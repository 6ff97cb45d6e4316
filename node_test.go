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

package bt

import (
	"errors"
	"testing"
)

func TestBaseNodeTickSuccess(t *testing.T) {
	n := NewAction("a1", func(ctx *TickContext) (Status, error) {
		return Success, nil
	}, nil)
	ctx := NewTickContext(nil)
	status, err := n.Tick(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Success {
		t.Fatalf("status = %s, want success", status)
	}
	if n.Status() != Success {
		t.Fatalf("n.Status() = %s, want success", n.Status())
	}
	if n.LastError() != "" {
		t.Fatalf("LastError() = %q, want empty", n.LastError())
	}
}

func TestBaseNodeTickOperationalFailureDoesNotPropagate(t *testing.T) {
	n := NewAction("a1", func(ctx *TickContext) (Status, error) {
		return Failure, &OperationalFailure{NodeID: "a1", Message: "boom"}
	}, nil)
	ctx := NewTickContext(nil)
	status, err := n.Tick(ctx)
	if err != nil {
		t.Fatalf("expected OperationalFailure to be swallowed, got %v", err)
	}
	if status != Failure {
		t.Fatalf("status = %s, want failure", status)
	}
	if n.LastError() == "" {
		t.Fatal("expected LastError to record the operational failure message")
	}
}

func TestBaseNodeTickConfigurationErrorPropagates(t *testing.T) {
	n := NewAction("a1", func(ctx *TickContext) (Status, error) {
		return Failure, &ConfigurationError{Message: "missing field"}
	}, nil)
	ctx := NewTickContext(nil)
	_, err := n.Tick(ctx)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError to propagate, got %v", err)
	}
	if cfgErr.NodeID != "a1" {
		t.Fatalf("expected propagated error to be stamped with node id, got %q", cfgErr.NodeID)
	}
}

func TestBaseNodeHaltOnlyAffectsRunningNodes(t *testing.T) {
	n := NewAction("a1", nil, nil)
	n.status = Idle
	ctx := NewTickContext(nil)
	n.Halt(ctx)
	if n.Status() != Idle {
		t.Fatalf("Halt on a non-running node should be a no-op, got %s", n.Status())
	}

	n.status = Running
	n.Halt(ctx)
	if n.Status() != Idle {
		t.Fatalf("Halt on a running node should reset to idle, got %s", n.Status())
	}
}

func TestBaseNodeResetRecursesIntoChildren(t *testing.T) {
	child := NewAction("child", nil, nil)
	child.status = Failure
	child.lastError = "bad"
	parent := NewBaseNode("parent", "sequence", nil, nil, child)
	parent.status = Running

	ctx := NewTickContext(nil)
	parent.Reset(ctx)

	if parent.Status() != Idle {
		t.Fatalf("parent status = %s, want idle", parent.Status())
	}
	if child.Status() != Idle {
		t.Fatalf("child status = %s, want idle", child.Status())
	}
	if child.LastError() != "" {
		t.Fatalf("child LastError = %q, want empty", child.LastError())
	}
}

func TestBaseNodeGetSetInputOutputRemapping(t *testing.T) {
	n := NewBaseNode("n1", "action", nil, map[string]any{"value": "aliased_key"})
	ctx := NewTickContext(nil)

	n.SetOutput(ctx, "value", 42)
	if v, ok := ctx.Blackboard.Get("aliased_key"); !ok || v != 42 {
		t.Fatalf("expected write to land at remapped key, got %v, %v", v, ok)
	}

	got := n.GetInput(ctx, "value", -1)
	if got != 42 {
		t.Fatalf("GetInput via remap = %v, want 42", got)
	}

	missing := n.GetInput(ctx, "unset", "default")
	if missing != "default" {
		t.Fatalf("GetInput default fallback = %v, want default", missing)
	}
}

func TestBaseNodeConfigIntAcceptsDecoderShapes(t *testing.T) {
	n := NewBaseNode("n1", "action", nil, map[string]any{
		"a": 3,
		"b": int64(4),
		"c": float64(5),
		"d": "not a number",
	})
	for _, c := range []struct {
		key  string
		want int
		ok   bool
	}{
		{"a", 3, true},
		{"b", 4, true},
		{"c", 5, true},
		{"d", 0, false},
		{"missing", 0, false},
	} {
		got, ok := n.ConfigInt(c.key)
		if got != c.want || ok != c.ok {
			t.Errorf("ConfigInt(%q) = (%d, %v), want (%d, %v)", c.key, got, ok, c.want, c.ok)
		}
	}
}

func TestNextAutoIDIsUniquePerCall(t *testing.T) {
	a := NextAutoID("sequence")
	b := NextAutoID("sequence")
	if a == b {
		t.Fatalf("expected distinct auto ids, got %q twice", a)
	}
}
