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
	"fmt"
	"sync/atomic"

	"github.com/arbortick/bt/event"
)

// Behavior is the single polymorphic point for a node kind: actions,
// composites, and decorators are all BaseNode values carrying a distinct
// Behavior, rather than distinct types in an inheritance hierarchy - the
// tagged-variant / behavior-table encoding called for by the design notes.
type Behavior interface {
	// ExecuteTick runs this behavior's logic for one tick. Composites and
	// decorators tick their own n.Children directly; actions ignore n and
	// do their own work.
	ExecuteTick(ctx *TickContext, n *BaseNode) (Status, error)
}

// Halter is implemented by composite/decorator Behaviors that need to halt
// running children when the node itself is halted. Leaf actions typically
// don't implement it - BaseNode.Halt is then a pure bookkeeping operation.
type Halter interface {
	OnHalt(ctx *TickContext, n *BaseNode)
}

// Resetter is implemented by Behaviors carrying internal progress state
// (cursors, attempt counts, timer starts, failure lists) that must be
// zeroed on Reset, beyond the bookkeeping BaseNode.Reset already does.
type Resetter interface {
	OnReset(n *BaseNode)
}

// BaseNode is the concrete representation of "Node" from the data model:
// id, name, type tag, parent back-edge, children, status, last error, and
// a config bag, wrapped by the tick envelope described in component design
// 4.1. Behavior is the only polymorphic field; everything else here is
// shared bookkeeping.
type BaseNode struct {
	ID       string
	Name     string
	Type     string
	Parent   *BaseNode // weak back-reference; never an ownership edge
	Children []*BaseNode
	Config   map[string]any
	Behavior Behavior

	status    Status
	lastError string
}

var autoIDCounter int64

// NextAutoID returns a process-unique id of the form "<type>_<counter>",
// used by the registry when a declarative node definition omits id.
func NextAutoID(typ string) string {
	n := atomic.AddInt64(&autoIDCounter, 1)
	return fmt.Sprintf("%s_%d", typ, n)
}

// NewBaseNode constructs a node, wiring the parent back-edge on every
// child (children form the ownership edge; Parent never does).
func NewBaseNode(id, typ string, behavior Behavior, config map[string]any, children ...*BaseNode) *BaseNode {
	n := &BaseNode{
		ID:       id,
		Name:     id,
		Type:     typ,
		Config:   config,
		Behavior: behavior,
		Children: children,
	}
	for _, c := range children {
		if c != nil {
			c.Parent = n
		}
	}
	return n
}

// WithName overrides Name (defaults to ID) and returns the receiver.
func (n *BaseNode) WithName(name string) *BaseNode {
	n.Name = name
	return n
}

// Status returns the node's current status.
func (n *BaseNode) Status() Status { return n.status }

// LastError returns the most recently recorded error message, or "" if
// none (including: cleared by the most recent successful tick or Reset).
func (n *BaseNode) LastError() string { return n.lastError }

func (n *BaseNode) isLeaf() bool { return len(n.Children) == 0 }

// Node adapts the receiver to the package's functional Node primitive, so
// a BaseNode tree can be handed out in closure form (as
// Registry.CloneTree does) and driven through Node/Tick.
func (n *BaseNode) Node() Node {
	return func() (Tick, []Node) {
		children := make([]Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = c.Node()
		}
		return func(ctx *TickContext, _ []Node) (Status, error) {
			return n.Tick(ctx)
		}, children
	}
}

// Tick runs the tick envelope described in component design 4.1:
//  1. emit TICK_START
//  2. run Behavior.ExecuteTick (short-circuited by fast-forward resume)
//  3. classify the outcome (propagate ConfigurationError/OperationCancelled/
//     TickTimeoutError, convert any other error to Failure, or commit the
//     returned Status)
//  4. emit TICK_END (or ERROR then TICK_END)
func (n *BaseNode) Tick(ctx *TickContext) (Status, error) {
	if ctx == nil {
		ctx = NewTickContext(nil)
	}
	ctx.emit(event.Event{Kind: event.TickStart, NodeID: n.ID, NodeName: n.Name, NodeType: n.Type})

	skip := ctx.fastForward(n.ID)
	if skip && n.isLeaf() {
		n.status = Success
		n.lastError = ""
		ctx.emit(event.Event{Kind: event.TickEnd, NodeID: n.ID, NodeName: n.Name, NodeType: n.Type, Data: Success})
		return Success, nil
	}

	status, err := n.Behavior.ExecuteTick(ctx, n)

	if err != nil {
		n.status = Failure
		n.lastError = err.Error()
		ctx.emit(event.Event{Kind: event.Error, NodeID: n.ID, NodeName: n.Name, NodeType: n.Type, Data: err.Error()})
		ctx.emit(event.Event{Kind: event.TickEnd, NodeID: n.ID, NodeName: n.Name, NodeType: n.Type, Data: Failure})
		if propagates(err) {
			return Failure, withNodeID(err, n.ID)
		}
		return Failure, nil
	}

	prev := n.status
	n.status = status
	n.lastError = ""
	if prev != n.status {
		ctx.emit(event.Event{Kind: event.StatusChange, NodeID: n.ID, NodeName: n.Name, NodeType: n.Type, Data: n.status})
	}
	ctx.emit(event.Event{Kind: event.TickEnd, NodeID: n.ID, NodeName: n.Name, NodeType: n.Type, Data: n.status})
	return n.status, nil
}

// withNodeID stamps a propagating error with the node id at which it was
// first observed, if it doesn't already carry one.
func withNodeID(err error, nodeID string) error {
	switch e := err.(type) {
	case *ConfigurationError:
		if e.NodeID == "" {
			e.NodeID = nodeID
		}
		return e
	case *OperationCancelled:
		if e.NodeID == "" {
			e.NodeID = nodeID
		}
		return e
	default:
		return err
	}
}

// Halt is only effective when Status is Running: it calls the Behavior's
// OnHalt (composites halt all running children, decorators their single
// child), clears any stored running-op, and resets Status to Idle.
// Non-running nodes are unchanged.
func (n *BaseNode) Halt(ctx *TickContext) {
	if n.status != Running {
		return
	}
	if h, ok := n.Behavior.(Halter); ok {
		h.OnHalt(ctx, n)
	}
	if ctx != nil && ctx.RunningOps != nil {
		ctx.RunningOps.Clear(n.ID)
	}
	n.status = Idle
}

// Reset is unconditional: it sets Idle, clears LastError, calls the
// Behavior's OnReset (if any), clears any stored running-op, and recurses
// into children.
func (n *BaseNode) Reset(ctx *TickContext) {
	n.status = Idle
	n.lastError = ""
	if r, ok := n.Behavior.(Resetter); ok {
		r.OnReset(n)
	}
	if ctx != nil && ctx.RunningOps != nil {
		ctx.RunningOps.Clear(n.ID)
	}
	for _, c := range n.Children {
		c.Reset(ctx)
	}
}

// HaltChildren halts every running child of n - the default helper used by
// composite/decorator Behaviors implementing Halter.
func HaltChildren(ctx *TickContext, n *BaseNode) {
	for _, c := range n.Children {
		c.Halt(ctx)
	}
}

// GetInput reads a blackboard value for a node's input port named key.
// If Config[key] holds a string, that string is used as the actual
// blackboard key (remapping); otherwise key itself is used literally. def
// is returned if the (possibly remapped) key isn't present.
func (n *BaseNode) GetInput(ctx *TickContext, key string, def any) any {
	actual := n.remap(key)
	if ctx != nil && ctx.Blackboard != nil {
		if v, ok := ctx.Blackboard.Get(actual); ok {
			return v
		}
	}
	return def
}

// SetOutput writes value to the blackboard under a node's output port
// named key, applying the same remapping rule as GetInput.
func (n *BaseNode) SetOutput(ctx *TickContext, key string, value any) {
	actual := n.remap(key)
	if ctx != nil && ctx.Blackboard != nil {
		ctx.Blackboard.Set(actual, value)
	}
}

func (n *BaseNode) remap(key string) string {
	if n.Config != nil {
		if v, ok := n.Config[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return key
}

// ConfigString returns Config[key] as a string, and whether it was
// present and of that type.
func (n *BaseNode) ConfigString(key string) (string, bool) {
	if n.Config == nil {
		return "", false
	}
	v, ok := n.Config[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ConfigInt returns Config[key] as an int, accepting int/int64/float64
// (the shapes commonly produced by YAML/JSON decoders).
func (n *BaseNode) ConfigInt(key string) (int, bool) {
	if n.Config == nil {
		return 0, false
	}
	switch v := n.Config[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
