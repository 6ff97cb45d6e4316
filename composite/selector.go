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

// selectorBehavior implements Selector / Fallback: OR semantics, dual to
// sequenceBehavior - Success short-circuits, Failure advances.
type selectorBehavior struct{}

func (selectorBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if len(n.Children) == 0 {
		return bt.Failure, nil
	}
	cursor := 0
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		cursor = v.(int)
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
			ctx.RunningOps.Set(n.ID, cursor)
			return bt.Running, nil
		case bt.Success:
			ctx.RunningOps.Clear(n.ID)
			return bt.Success, nil
		default:
			cursor++
		}
	}
	ctx.RunningOps.Clear(n.ID)
	return bt.Failure, nil
}

func (selectorBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// NewSelector constructs a Selector (a.k.a. Fallback): children ticked
// left-to-right from a stored cursor; Success short-circuits; an empty
// child list fails immediately. It does not catch a child's
// ConfigurationError and move on - misconfigured trees fail loudly, per
// the base tick envelope's propagation policy.
func NewSelector(id string, children ...*bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Selector", selectorBehavior{}, nil, children...)
}

// NewFallback is an alias of NewSelector.
func NewFallback(id string, children ...*bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Fallback", selectorBehavior{}, nil, children...)
}
