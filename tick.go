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

import "errors"

type (
	// Node represents a node in a tree, that can be ticked. It is a thunk
	// returning the tick logic and the node's children, mirroring the
	// teacher library's closure-first node model.
	Node func() (Tick, []Node)

	// Tick represents the logic for a node, which may or may not be
	// stateful. It receives the shared TickContext for the current tick
	// session, and the node's children.
	Tick func(ctx *TickContext, children []Node) (Status, error)
)

// New constructs a new Node out of a tick and children, with vararg support
// for less indentation.
func New(tick Tick, children ...Node) Node {
	return NewNode(tick, children)
}

// NewNode constructs a new Node out of a tick and children.
func NewNode(tick Tick, children []Node) Node {
	return func() (Tick, []Node) {
		return tick, children
	}
}

// Tick runs the node's tick function with its children, given ctx.
func (n Node) Tick(ctx *TickContext) (Status, error) {
	if n == nil {
		return Failure, errors.New("bt: cannot tick a nil node")
	}
	tick, children := n()
	if tick == nil {
		return Failure, errors.New("bt: cannot tick a node with a nil tick")
	}
	if ctx == nil {
		ctx = NewTickContext(nil)
	}
	return tick(ctx, children)
}

func copyNodes(src []Node) (dst []Node) {
	if src == nil {
		return nil
	}
	dst = make([]Node, len(src))
	copy(dst, src)
	return dst
}
