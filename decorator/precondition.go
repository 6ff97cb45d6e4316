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

// PredicateFunc evaluates a precondition against the current tick
// context, typically reading the blackboard.
type PredicateFunc func(ctx *bt.TickContext) (bool, error)

// preconditionBehavior implements Precondition: the child is only
// ticked when predicate resolves true. Once the child reports Running,
// the predicate is not re-evaluated until the child terminates. When
// required is true, a nil
// predicate or a predicate error is a ConfigurationError (authoring
// fault); when required is false the same situations are treated as the
// predicate resolving to false, and the node simply reports Failure
// without halting anything, since the child never started.
type preconditionBehavior struct {
	predicate PredicateFunc
	required  bool
}

func (b preconditionBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "precondition requires exactly 1 child"}
	}
	if b.predicate == nil {
		if b.required {
			return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "precondition has no predicate resolver"}
		}
		return bt.Failure, nil
	}
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}
	ok, err := true, error(nil)
	if _, checked := ctx.RunningOps.Get(n.ID); !checked {
		ok, err = b.predicate(ctx)
	}
	if err != nil {
		if b.required {
			return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "precondition resolver error: " + err.Error()}
		}
		return bt.Failure, nil
	}
	if !ok {
		return bt.Failure, nil
	}
	status, err := c.Tick(ctx)
	if err == nil && status == bt.Running {
		ctx.RunningOps.Set(n.ID, true)
	} else {
		ctx.RunningOps.Clear(n.ID)
	}
	return status, err
}

func (preconditionBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewPrecondition constructs a Precondition node. required controls
// whether a missing or failing predicate resolution is an authoring
// fault (ConfigurationError) or a benign Failure.
func NewPrecondition(id string, predicate PredicateFunc, required bool, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Precondition", preconditionBehavior{predicate: predicate, required: required}, nil, c)
}
