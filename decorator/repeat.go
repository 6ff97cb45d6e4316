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

// repeatState tracks how many full iterations have completed.
type repeatState struct {
	Count int
}

// repeatBehavior implements Repeat: reticks its child config["count"]
// times, Success each time, reporting Success once the count is
// reached. A child Failure aborts immediately with Failure. count <= 0
// repeats forever (only halted externally), mirroring
// KeepRunningUntilFailure's unbounded-on-success behavior but for Repeat
// the loop never stops itself on its own terms.
type repeatBehavior struct{}

func (repeatBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "repeat requires exactly 1 child"}
	}
	count, ok := n.ConfigInt("count")
	if !ok || count <= 0 {
		count = 0
	}

	var st repeatState
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		st = v.(repeatState)
	}

	if err := bt.CheckCancelled(ctx); err != nil {
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, err
	}

	status, err := c.Tick(ctx)
	if err != nil {
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, err
	}
	switch status {
	case bt.Running:
		ctx.RunningOps.Set(n.ID, st)
		return bt.Running, nil
	case bt.Failure:
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, nil
	default:
		c.Reset(ctx)
		st.Count++
		if count > 0 && st.Count >= count {
			ctx.RunningOps.Clear(n.ID)
			return bt.Success, nil
		}
		ctx.RunningOps.Set(n.ID, st)
		return bt.Running, nil
	}
}

func (repeatBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewRepeat constructs a Repeat node that runs its child count times
// (count <= 0 means unbounded).
func NewRepeat(id string, count int, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Repeat", repeatBehavior{}, map[string]any{"count": count}, c)
}
