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

func TestRepeatRunsChildCountTimesThenSucceeds(t *testing.T) {
	calls := 0
	child := bt.NewAction("c", func(ctx *bt.TickContext) (bt.Status, error) {
		calls++
		return bt.Success, nil
	}, nil)
	n := NewRepeat("r", 3, child)
	ctx := bt.NewTickContext(nil)

	var status bt.Status
	var err error
	for i := 0; i < 3; i++ {
		status, err = n.Tick(ctx)
	}
	if err != nil || status != bt.Success {
		t.Fatalf("got (%s, %v), want (success, nil) after 3 iterations", status, err)
	}
	if calls != 3 {
		t.Fatalf("expected child ticked exactly 3 times, got %d", calls)
	}
}

func TestRepeatAbortsImmediatelyOnChildFailure(t *testing.T) {
	n := NewRepeat("r", 5, failingLeaf("c"))
	status, err := n.Tick(bt.NewTickContext(nil))
	if err != nil || status != bt.Failure {
		t.Fatalf("got (%s, %v), want (failure, nil)", status, err)
	}
}

func TestRepeatReportsRunningBetweenIterations(t *testing.T) {
	n := NewRepeat("r", 2, succeedingLeaf("c"))
	ctx := bt.NewTickContext(nil)
	status, err := n.Tick(ctx)
	if err != nil || status != bt.Running {
		t.Fatalf("first tick = (%s, %v), want (running, nil)", status, err)
	}
}
