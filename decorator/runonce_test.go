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
	"testing"

	"github.com/arbortick/bt"
)

func TestRunOnceReplaysResultWithoutReticking(t *testing.T) {
	calls := 0
	child := bt.NewAction("c", func(ctx *bt.TickContext) (bt.Status, error) {
		calls++
		return bt.Success, nil
	}, nil)
	n := NewRunOnce("ro", child)
	ctx := bt.NewTickContext(nil)

	for i := 0; i < 3; i++ {
		status, err := n.Tick(ctx)
		if err != nil || status != bt.Success {
			t.Fatalf("tick %d = (%s, %v), want (success, nil)", i, status, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected child ticked exactly once, got %d calls", calls)
	}
}

func TestRunOnceResetAllowsAnotherExecution(t *testing.T) {
	calls := 0
	child := bt.NewAction("c", func(ctx *bt.TickContext) (bt.Status, error) {
		calls++
		return bt.Success, nil
	}, nil)
	n := NewRunOnce("ro", child)
	ctx := bt.NewTickContext(nil)

	n.Tick(ctx)
	n.Reset(ctx)
	n.Tick(ctx)

	if calls != 2 {
		t.Fatalf("expected child ticked again after Reset, got %d calls", calls)
	}
}
