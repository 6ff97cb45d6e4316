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
	"sync"

	"github.com/arbortick/bt"
)

// softAssertBehavior implements SoftAssert: a child Failure is recorded
// rather than propagated upward as Failure; the node itself always
// reports the child's Success/Running, or Success in place of a
// recorded Failure, so a single soft failure never halts a sibling
// sequence. Recorded failures accumulate until Reset.
type softAssertBehavior struct {
	mu       sync.Mutex
	failures []string
}

func (b *softAssertBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	c := child(n)
	if c == nil {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "soft_assert requires exactly 1 child"}
	}
	if err := bt.CheckCancelled(ctx); err != nil {
		return bt.Failure, err
	}
	status, err := c.Tick(ctx)
	if err != nil {
		return bt.Failure, err
	}
	if status == bt.Failure {
		msg := c.LastError()
		if msg == "" {
			msg = c.ID + " failed"
		}
		b.mu.Lock()
		b.failures = append(b.failures, msg)
		b.mu.Unlock()
		return bt.Success, nil
	}
	return status, nil
}

func (b *softAssertBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { haltChild(ctx, n) }

func (b *softAssertBehavior) OnReset(n *bt.BaseNode) {
	b.mu.Lock()
	b.failures = nil
	b.mu.Unlock()
}

// NewSoftAssert constructs a SoftAssert node wrapping a single child.
func NewSoftAssert(id string, c *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "SoftAssert", &softAssertBehavior{}, nil, c)
}

// SoftAssertFailures returns the failure messages recorded by a
// SoftAssert node so far. It returns nil if n is not a SoftAssert node.
func SoftAssertFailures(n *bt.BaseNode) []string {
	b, ok := n.Behavior.(*softAssertBehavior)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.failures))
	copy(out, b.failures)
	return out
}

// SoftAssertHasFailures reports whether a SoftAssert node has recorded
// any failures since the last Reset.
func SoftAssertHasFailures(n *bt.BaseNode) bool {
	b, ok := n.Behavior.(*softAssertBehavior)
	if !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.failures) > 0
}
