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

import (
	"sync"

	"github.com/arbortick/bt"
)

// parallelBehavior implements Parallel: all non-terminal children are
// ticked concurrently as a set each outer tick - grounded on the teacher's
// Fork tick (which tracks a "remaining" set and fires one goroutine per
// still-running child per cycle), generalized with strategy/threshold
// aggregation.
type parallelBehavior struct{}

type parallelResult struct {
	index  int
	status bt.Status
	err    error
}

func (parallelBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if len(n.Children) == 0 {
		return bt.Success, nil
	}
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}

	var toTick []int
	for i, c := range n.Children {
		if !c.Status().Terminal() {
			toTick = append(toTick, i)
		}
	}

	results := make(chan parallelResult, len(toTick))
	var wg sync.WaitGroup
	for _, idx := range toTick {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			status, err := n.Children[idx].Tick(ctx)
			results <- parallelResult{index: idx, status: status, err: err}
		}(idx)
	}
	wg.Wait()
	close(results)

	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	if firstErr != nil {
		return bt.Failure, firstErr
	}

	var successes, failures, running int
	for _, c := range n.Children {
		switch c.Status() {
		case bt.Success:
			successes++
		case bt.Failure:
			failures++
		case bt.Running:
			running++
		}
	}

	successThreshold, hasST := n.ConfigInt("success_threshold")
	failureThreshold, hasFT := n.ConfigInt("failure_threshold")
	if hasST || hasFT {
		if hasST && successes >= successThreshold {
			haltRunningThenResetAll(ctx, n.Children)
			return bt.Success, nil
		}
		if hasFT && failures >= failureThreshold {
			haltRunningThenResetAll(ctx, n.Children)
			return bt.Failure, nil
		}
		if running > 0 {
			return bt.Running, nil
		}
		haltRunningThenResetAll(ctx, n.Children)
		return bt.Failure, nil
	}

	strategy, _ := n.ConfigString("strategy")
	switch strategy {
	case "any":
		if successes > 0 {
			haltRunningThenResetAll(ctx, n.Children)
			return bt.Success, nil
		}
		if running > 0 {
			return bt.Running, nil
		}
		haltRunningThenResetAll(ctx, n.Children)
		return bt.Failure, nil
	default: // "strict" is the default strategy
		if failures > 0 {
			haltRunningThenResetAll(ctx, n.Children)
			return bt.Failure, nil
		}
		if running > 0 {
			return bt.Running, nil
		}
		haltRunningThenResetAll(ctx, n.Children)
		return bt.Success, nil
	}
}

func (parallelBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// NewParallel constructs a Parallel node. strategy is "strict" (default,
// Success iff every child succeeds) or "any" (Success as soon as one
// child succeeds). config may additionally carry success_threshold /
// failure_threshold, which override strategy entirely when present.
func NewParallel(id string, config map[string]any, children ...*bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Parallel", parallelBehavior{}, config, children...)
}
