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

import (
	"github.com/arbortick/bt"
)

// timeoutState records when the current execution cycle started.
type timeoutState struct {
	StartMS int64
}

// timeoutBehavior implements Timeout: the child is halted and the node
// reports Failure if it has not terminated within config["timeout_ms"] of
// wall-clock (as measured by ctx.Clock).
type timeoutBehavior struct{}

func (timeoutBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "timeout requires exactly 1 child"}
	}
	limitMS, ok := n.ConfigInt("timeout_ms")
	if !ok || limitMS <= 0 {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "timeout requires a positive timeout_ms"}
	}
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}

	now := ctx.Clock.NowMS()
	var st timeoutState
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		st = v.(timeoutState)
	} else {
		st.StartMS = now
	}

	elapsed := now - st.StartMS
	if elapsed >= int64(limitMS) {
		c.Halt(ctx)
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, nil
	}

	status, err := c.Tick(ctx)
	if err != nil {
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, err
	}
	if status == bt.Running {
		ctx.RunningOps.Set(n.ID, st)
		return bt.Running, nil
	}
	ctx.RunningOps.Clear(n.ID)
	return status, nil
}

func (timeoutBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewTimeout constructs a Timeout node bounding the child's execution to
// timeoutMS milliseconds.
func NewTimeout(id string, timeoutMS int64, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Timeout", timeoutBehavior{}, map[string]any{"timeout_ms": timeoutMS}, c)
}
