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
	"time"

	"github.com/arbortick/bt/blackboard"
	"github.com/arbortick/bt/event"
	"github.com/oklog/ulid/v2"
)

// TreeRegistry is the subset of registry.Registry that SubTree nodes need:
// cloning a named tree template by id. Defined here, rather than imported
// from the registry package, to avoid an import cycle between the node
// model and the registry that builds trees of nodes.
type TreeRegistry interface {
	CloneTree(treeID string) (Node, error)
}

// RunningOps is the cross-tick table of per-node continuation state,
// keyed by node id. It is owned by the tick engine and shared read-write
// by all nodes in the tree for the lifetime of a tick session.
type RunningOps struct {
	values map[string]any
}

// NewRunningOps constructs an empty RunningOps table.
func NewRunningOps() *RunningOps {
	return &RunningOps{values: make(map[string]any)}
}

// Get returns the stored continuation state for nodeID, if any.
func (r *RunningOps) Get(nodeID string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[nodeID]
	return v, ok
}

// Set stores continuation state for nodeID.
func (r *RunningOps) Set(nodeID string, v any) {
	if r == nil {
		return
	}
	r.values[nodeID] = v
}

// Clear removes any continuation state stored for nodeID. Called on
// halt/reset.
func (r *RunningOps) Clear(nodeID string) {
	if r == nil {
		return
	}
	delete(r.values, nodeID)
}

// TickContext is the per-tick record threaded through every node's tick
// call: the shared blackboard, cancellation, clock, event sink, and
// cross-tick running-ops table, plus bookkeeping for resuming execution at
// a specific node.
type TickContext struct {
	Blackboard   *blackboard.Blackboard
	TreeRegistry TreeRegistry
	Cancellation Cancellation
	Clock        Clock
	Sleep        Sleeper
	EventSink    *event.Sink
	RunningOps   *RunningOps

	// ResumeFromNodeID and HasReachedResumePoint implement "fast-forward"
	// resumption: while HasReachedResumePoint is false, the base tick
	// envelope skips node bodies (leaves return Success without side
	// effects) until ResumeFromNodeID is reached, at which point the flag
	// is set and normal execution resumes.
	ResumeFromNodeID      string
	HasReachedResumePoint bool

	SessionID string
	Timestamp time.Time
	DeltaTime time.Duration
}

// NewTickContext constructs a TickContext with sensible defaults: a fresh
// root blackboard if bb is nil, the system clock, real sleep, a never
// -cancelled token, a fresh running-ops table, and a new session id.
func NewTickContext(bb *blackboard.Blackboard) *TickContext {
	if bb == nil {
		bb = blackboard.New()
	}
	return &TickContext{
		Blackboard:   bb,
		Cancellation: NewCancellation(nil),
		Clock:        SystemClock{},
		Sleep:        defaultSleep,
		RunningOps:   NewRunningOps(),
		SessionID:    NewSessionID(),
		Timestamp:    time.Now(),
	}
}

// NewSessionID returns a new lexically-sortable session identifier.
// ULIDs, rather than random UUIDs, are used so that session ids collected
// in logs/snapshots sort by creation time.
func NewSessionID() string {
	return ulid.Make().String()
}

// fastForward reports whether nodeID's body execution should be skipped
// because a resume is in progress and this node is not (yet) the resume
// target. Reaching the target node flips HasReachedResumePoint for the
// remainder of the tick.
func (c *TickContext) fastForward(nodeID string) bool {
	if c == nil || c.ResumeFromNodeID == "" || c.HasReachedResumePoint {
		return false
	}
	if nodeID == c.ResumeFromNodeID {
		c.HasReachedResumePoint = true
		return false
	}
	return true
}

// emit is a nil-safe convenience wrapper around EventSink.Emit.
func (c *TickContext) emit(ev event.Event) {
	if c == nil || c.EventSink == nil {
		return
	}
	c.EventSink.Emit(ev)
}
