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

import "github.com/arbortick/bt"

// sequenceBehavior implements Sequence / MemorySequence: AND semantics,
// with a cursor remembered across Running ticks (stored in
// ctx.RunningOps, keyed by node id).
type sequenceBehavior struct{ reactive bool }

func (b sequenceBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if len(n.Children) == 0 {
		return bt.Success, nil
	}
	cursor := 0
	if !b.reactive {
		if v, ok := ctx.RunningOps.Get(n.ID); ok {
			cursor = v.(int)
		}
	}
	for cursor < len(n.Children) {
		if err := bt.CheckCancelled(ctx); err != nil {
			return bt.Failure, err
		}
		status, err := n.Children[cursor].Tick(ctx)
		if err != nil {
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, err
		}
		switch status {
		case bt.Running:
			if !b.reactive {
				ctx.RunningOps.Set(n.ID, cursor)
			}
			return bt.Running, nil
		case bt.Failure:
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, nil
		default:
			cursor++
		}
	}
	ctx.RunningOps.Clear(n.ID)
	return bt.Success, nil
}

func (sequenceBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// NewSequence constructs a Sequence (== MemorySequence): children ticked
// left-to-right from a stored cursor; a Failure resets the cursor to 0; an
// empty child list succeeds immediately.
func NewSequence(id string, children ...*bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Sequence", sequenceBehavior{}, nil, children...)
}

// NewMemorySequence is an explicit alias of NewSequence.
func NewMemorySequence(id string, children ...*bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "MemorySequence", sequenceBehavior{}, nil, children...)
}

// NewReactiveSequence constructs a Sequence with no cursor memory: every
// tick restarts at child 0, making it suitable for always-live guard
// conditions.
func NewReactiveSequence(id string, children ...*bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "ReactiveSequence", sequenceBehavior{reactive: true}, nil, children...)
}
