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

package decorator

import "github.com/arbortick/bt"

// runOnceState remembers the terminal result of the single permitted
// execution.
type runOnceState struct {
	Done   bool
	Result bt.Status
}

// runOnceBehavior implements RunOnce: the child is ticked until it
// terminates exactly once; afterwards the remembered result is replayed
// on every subsequent tick without reticking the child, until Reset.
type runOnceBehavior struct{}

func (runOnceBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "run_once requires exactly 1 child"}
	}

	var st runOnceState
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		st = v.(runOnceState)
	}
	if st.Done {
		return st.Result, nil
	}

	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}
	status, err := c.Tick(ctx)
	if err != nil {
		return bt.Failure, err
	}
	if status == bt.Running {
		ctx.RunningOps.Set(n.ID, st)
		return bt.Running, nil
	}
	st.Done = true
	st.Result = status
	ctx.RunningOps.Set(n.ID, st)
	return status, nil
}

func (runOnceBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewRunOnce constructs a RunOnce node wrapping a single child.
func NewRunOnce(id string, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "RunOnce", runOnceBehavior{}, nil, c)
}
