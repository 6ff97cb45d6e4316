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

// retryState is the cross-tick continuation stored in ctx.RunningOps.
// Waiting/WaitUntilMS implement the inter-attempt back-off window: once
// set, the child is not re-ticked until ctx.Clock reaches WaitUntilMS.
type retryState struct {
	Attempts    int
	Waiting     bool
	WaitUntilMS int64
}

// retryBehavior implements Retry / RetryUntilSuccessful: on child Failure,
// the child is reset and the node reports Running so the next attempt
// happens on a later tick, up to max_attempts times (config key
// "max_attempts"; <= 0 means unbounded). If config key "retry_delay_ms" is
// positive, the node reports Running without re-ticking the child until
// that many milliseconds (per ctx.Clock) have elapsed since the failed
// attempt. Success short-circuits immediately; exhausting attempts yields
// Failure.
type retryBehavior struct{}

func (retryBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "retry requires exactly 1 child"}
	}
	maxAttempts := 0
	if v, ok := n.ConfigInt("max_attempts"); ok {
		maxAttempts = v
	}
	retryDelayMS := 0
	if v, ok := n.ConfigInt("retry_delay_ms"); ok {
		retryDelayMS = v
	}

	var st retryState
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		st = v.(retryState)
	}

	if err := bt.CheckCancelled(ctx); err != nil {
		ctx.RunningOps.Clear(n.ID)
		return bt.Failure, err
	}

	if st.Waiting {
		if ctx.Clock.NowMS() < st.WaitUntilMS {
			ctx.RunningOps.Set(n.ID, st)
			return bt.Running, nil
		}
		st.Waiting = false
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
	case bt.Success:
		ctx.RunningOps.Clear(n.ID)
		return bt.Success, nil
	default:
		st.Attempts++
		if maxAttempts > 0 && st.Attempts >= maxAttempts {
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, nil
		}
		c.Reset(ctx)
		if retryDelayMS > 0 {
			st.Waiting = true
			st.WaitUntilMS = ctx.Clock.NowMS() + int64(retryDelayMS)
		}
		ctx.RunningOps.Set(n.ID, st)
		return bt.Running, nil
	}
}

func (retryBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

// NewRetry constructs a Retry node. maxAttempts <= 0 means retry forever
// until Success (RetryUntilSuccessful).
func NewRetry(id string, maxAttempts int, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Retry", retryBehavior{}, map[string]any{"max_attempts": maxAttempts}, c)
}

// NewRetryWithDelay constructs a Retry node that additionally waits
// retryDelayMS (per ctx.Clock) between a failed attempt and the next.
func NewRetryWithDelay(id string, maxAttempts int, retryDelayMS int64, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "Retry", retryBehavior{}, map[string]any{
		"max_attempts":   maxAttempts,
		"retry_delay_ms": retryDelayMS,
	}, c)
}
