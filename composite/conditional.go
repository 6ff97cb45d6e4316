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

// conditionalState is the per-execution-cycle continuation state stored in
// ctx.RunningOps: whether the branch has been chosen yet, and which one.
type conditionalState struct {
	Evaluated bool
	ElseBranch bool
}

// conditionalBehavior implements Conditional: 2-3 children (condition,
// then, optional else). The condition is evaluated once per execution
// cycle; once a branch is selected, only that branch is ticked until it
// terminates, at which point selection clears for the next cycle. The
// condition is deliberately NOT re-evaluated after branch selection - the
// same semantics documented for Precondition, intentional per the open
// questions.
type conditionalBehavior struct{}

func (conditionalBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if len(n.Children) < 2 || len(n.Children) > 3 {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "conditional requires 2 or 3 children"}
	}
	cond, thenBranch := n.Children[0], n.Children[1]
	var elseBranch *bt.BaseNode
	if len(n.Children) == 3 {
		elseBranch = n.Children[2]
	}

	var st conditionalState
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		st = v.(conditionalState)
	}

	if !st.Evaluated {
		if err := bt.CheckCancelled(ctx); err != nil {
			return bt.Failure, err
		}
		status, err := cond.Tick(ctx)
		if err != nil {
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, err
		}
		switch status {
		case bt.Running:
			ctx.RunningOps.Set(n.ID, st)
			return bt.Running, nil
		case bt.Success:
			st.ElseBranch = false
		default:
			if elseBranch == nil {
				ctx.RunningOps.Clear(n.ID)
				return bt.Failure, nil
			}
			st.ElseBranch = true
		}
		st.Evaluated = true
	}

	branch := thenBranch
	if st.ElseBranch {
		branch = elseBranch
	}
	status, err := branch.Tick(ctx)
	if err != nil {
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, err
	}
	if status == bt.Running {
		ctx.RunningOps.Set(n.ID, st)
		return bt.Running, nil
	}
	branch.Reset(ctx)
	cond.Reset(ctx)
	ctx.RunningOps.Clear(n.ID)
	return status, nil
}

func (conditionalBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// NewConditional constructs a Conditional node with a condition, a
// then-branch, and an optional else-branch.
func NewConditional(id string, condition, thenBranch, elseBranch *bt.BaseNode) *bt.BaseNode {
	children := []*bt.BaseNode{condition, thenBranch}
	if elseBranch != nil {
		children = append(children, elseBranch)
	}
	return bt.NewBaseNode(id, "Conditional", conditionalBehavior{}, nil, children...)
}
