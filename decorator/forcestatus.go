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

// forceBehavior implements ForceSuccess/ForceFailure: a terminal child
// result is replaced with a fixed status; Running passes through.
type forceBehavior struct {
	forced bt.Status
}

func (b forceBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "force decorator requires exactly 1 child"}
	}
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}
	status, err := c.Tick(ctx)
	if err != nil {
		return bt.Failure, err
	}
	if status == bt.Running {
		return bt.Running, nil
	}
	return b.forced, nil
}

func (forceBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewForceSuccess constructs a node that reports Success whenever its
// child terminates, regardless of the child's actual result.
func NewForceSuccess(id string, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "ForceSuccess", forceBehavior{forced: bt.Success}, nil, c)
}

// NewForceFailure constructs a node that reports Failure whenever its
// child terminates, regardless of the child's actual result.
func NewForceFailure(id string, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "ForceFailure", forceBehavior{forced: bt.Failure}, nil, c)
}
