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

// Package composite provides the multi-child node kinds: Sequence,
// MemorySequence, ReactiveSequence, Selector, Parallel, ForEach, While,
// Conditional, Recovery, and SubTree. Each is a bt.Behavior, driving its
// children directly via BaseNode.Tick, looping internally across its
// static children (or, for ForEach, across the collection) within a
// single ExecuteTick call, and returning early on Running or once a
// child's result decides the node's outcome - the same shape as the teacher's Sequence/Selector
// tick functions, generalized to operate on stateful children instead of
// re-derived functional ones.
package composite

import "github.com/arbortick/bt"

func resetAll(ctx *bt.TickContext, children []*bt.BaseNode) {
	for _, c := range children {
		c.Reset(ctx)
	}
}

// haltRunningThenResetAll halts any child still Running - running its
// Behavior's OnHalt, the only path that reaches a composite/decorator
// child's own running-child cleanup - before resetting every child to
// Idle. Used wherever a composite decides the outcome while siblings may
// still be mid-flight, so Reset never fires against a Running node.
func haltRunningThenResetAll(ctx *bt.TickContext, children []*bt.BaseNode) {
	for _, c := range children {
		if c.Status() == bt.Running {
			c.Halt(ctx)
		}
	}
	resetAll(ctx, children)
}
