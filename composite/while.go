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

const defaultMaxIterations = 1000

// whileBehavior implements While: two children, condition then body. Once
// the body starts for the current iteration, the condition is not
// re-evaluated until the body completes.
type whileBehavior struct{}

func (whileBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if len(n.Children) != 2 {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "while requires exactly 2 children (condition, body)"}
	}
	cond, body := n.Children[0], n.Children[1]

	maxIter := defaultMaxIterations
	if v, ok := n.ConfigInt("max_iterations"); ok && v > 0 {
		maxIter = v
	}

	inBody := false
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		inBody = v.(bool)
	}

	for i := 0; i < maxIter; i++ {
		if err := bt.CheckCancelled(ctx); err != nil {
			return bt.Failure, err
		}
		if !inBody {
			status, err := cond.Tick(ctx)
			if err != nil {
				ctx.RunningOps.Clear(n.ID)
				return bt.Failure, err
			}
			switch status {
			case bt.Running:
				ctx.RunningOps.Set(n.ID, false)
				return bt.Running, nil
			case bt.Failure:
				ctx.RunningOps.Clear(n.ID)
				return bt.Success, nil
			default:
				inBody = true
			}
		}

		status, err := body.Tick(ctx)
		if err != nil {
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, err
		}
		switch status {
		case bt.Running:
			ctx.RunningOps.Set(n.ID, true)
			return bt.Running, nil
		case bt.Failure:
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, nil
		default:
			body.Reset(ctx)
			inBody = false
		}
	}
	ctx.RunningOps.Clear(n.ID)
	return bt.Failure, nil
}

func (whileBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// NewWhile constructs a While node with condition and body children.
// config may carry max_iterations (default 1000).
func NewWhile(id string, config map[string]any, condition, body *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "While", whileBehavior{}, config, condition, body)
}
