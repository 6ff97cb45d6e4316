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

// invertBehavior implements Invert: Success becomes Failure and vice
// versa. Running passes through unchanged; errors propagate untouched.
type invertBehavior struct{}

func (invertBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "invert requires exactly 1 child"}
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
		return bt.Failure, nil
	case bt.Failure:
		return bt.Success, nil
	default:
		return status, nil
	}
}

func (invertBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewInvert constructs an Invert node wrapping a single child.
func NewInvert(id string, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Invert", invertBehavior{}, nil, c)
}
