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

// recoveryBehavior implements Recovery: a Selector constrained to exactly
// two children with recovery semantics - try primary, and on Failure run
// fallback, whose result becomes the node's result.
type recoveryBehavior struct{}

func (recoveryBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if len(n.Children) != 2 {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "recovery requires exactly 2 children (primary, fallback)"}
	}
	primary, fallback := n.Children[0], n.Children[1]

	inFallback := false
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		inFallback = v.(bool)
	}
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}

	if !inFallback {
		status, err := primary.Tick(ctx)
		if err != nil {
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, err
		}
		switch status {
		case bt.Running:
			ctx.RunningOps.Set(n.ID, false)
			return bt.Running, nil
		case bt.Success:
			ctx.RunningOps.Clear(n.ID)
			return bt.Success, nil
		default:
			inFallback = true
		}
	}

	status, err := fallback.Tick(ctx)
	if err != nil {
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, err
	}
	if status == bt.Running {
		ctx.RunningOps.Set(n.ID, true)
		return bt.Running, nil
	}
	ctx.RunningOps.Clear(n.ID)
	return status, nil
}

func (recoveryBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// NewRecovery constructs a Recovery node with a primary and fallback child.
func NewRecovery(id string, primary, fallback *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Recovery", recoveryBehavior{}, nil, primary, fallback)
}
