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

package composite

import (
	"errors"
	"testing"

	"github.com/arbortick/bt"
)

// fakeTreeRegistry implements bt.TreeRegistry, counting how many times
// CloneTree is called so tests can assert SubTree only resolves once.
type fakeTreeRegistry struct {
	calls int
	node  bt.Node
	err   error
}

func (f *fakeTreeRegistry) CloneTree(treeID string) (bt.Node, error) {
	f.calls++
	return f.node, f.err
}

func TestSubTreeResolvesAndAttachesOnFirstTickOnly(t *testing.T) {
	reg := &fakeTreeRegistry{node: bt.New(func(*bt.TickContext, []bt.Node) (bt.Status, error) {
		return bt.Success, nil
	})}
	ctx := bt.NewTickContext(nil)
	ctx.TreeRegistry = reg
	n := NewSubTree("sub", "other-tree")

	status, err := n.Tick(ctx)
	if err != nil || status != bt.Success {
		t.Fatalf("first tick: got (%s, %v), want (success, nil)", status, err)
	}
	status, err = n.Tick(ctx)
	if err != nil || status != bt.Success {
		t.Fatalf("second tick: got (%s, %v), want (success, nil)", status, err)
	}
	if reg.calls != 1 {
		t.Fatalf("CloneTree called %d times, want 1", reg.calls)
	}
}

func TestSubTreeRequiresTreeRegistryOnContext(t *testing.T) {
	ctx := bt.NewTickContext(nil)
	n := NewSubTree("sub", "other-tree")

	_, err := n.Tick(ctx)
	var cfgErr *bt.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
}

func TestSubTreeSurfacesCloneTreeErrorAsConfigurationError(t *testing.T) {
	reg := &fakeTreeRegistry{err: errors.New("no such tree")}
	ctx := bt.NewTickContext(nil)
	ctx.TreeRegistry = reg
	n := NewSubTree("sub", "missing-tree")

	_, err := n.Tick(ctx)
	var cfgErr *bt.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
}
