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

// delayState records when the current execution cycle started waiting,
// and whether the wait has already elapsed.
type delayState struct {
	StartMS int64
	Waited  bool
}

// delayBehavior implements Delay: reports Running, without ticking its
// child, until config["delay_ms"] has elapsed since entry (measured via
// ctx.Clock), then ticks the child as normal for the remainder of the
// execution cycle. Polling rather than blocking keeps an enclosing
// Timeout's own elapsed check reachable every tick, instead of starving it
// behind one long synchronous wait.
type delayBehavior struct{}

func (delayBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "delay requires exactly 1 child"}
	}
	delayMS, _ := n.ConfigInt("delay_ms")
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}

	now := ctx.Clock.NowMS()
	var st delayState
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		st = v.(delayState)
	} else {
		st.StartMS = now
	}

	if !st.Waited {
		if now-st.StartMS < int64(delayMS) {
			ctx.RunningOps.Set(n.ID, st)
			return bt.Running, nil
		}
		st.Waited = true
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

func (delayBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewDelay constructs a Delay node that waits delayMS before first
// ticking its child within an execution cycle.
func NewDelay(id string, delayMS int64, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Delay", delayBehavior{}, map[string]any{"delay_ms": delayMS}, c)
}
