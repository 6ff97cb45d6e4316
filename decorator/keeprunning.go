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

// keepRunningBehavior implements KeepRunningUntilFailure: child Success
// is swallowed and turned into Running (after resetting the child so it
// starts fresh next tick); Failure and Running pass through unchanged.
type keepRunningBehavior struct{}

func (keepRunningBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "keep_running_until_failure requires exactly 1 child"}
	}
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}
	status, err := c.Tick(ctx)
	if err != nil {
		return bt.Failure, err
	}
	switch status {
	case bt.Success:
		c.Reset(ctx)
		return bt.Running, nil
	case bt.Failure:
		return bt.Failure, nil
	default:
		return bt.Running, nil
	}
}

func (keepRunningBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewKeepRunningUntilFailure constructs a KeepRunningUntilFailure node
// wrapping a single child.
func NewKeepRunningUntilFailure(id string, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "KeepRunningUntilFailure", keepRunningBehavior{}, nil, c)
}
