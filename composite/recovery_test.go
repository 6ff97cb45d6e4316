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
	"testing"

	"github.com/arbortick/bt"
)

func TestRecoverySkipsFallbackWhenPrimarySucceeds(t *testing.T) {
	fallback := succeedingLeaf("fallback")
	n := NewRecovery("r", succeedingLeaf("primary"), fallback)
	status, err := n.Tick(bt.NewTickContext(nil))
	if err != nil || status != bt.Success {
		t.Fatalf("got (%s, %v), want (success, nil)", status, err)
	}
	if fallback.Status() != bt.Idle {
		t.Fatalf("expected fallback never ticked, status = %s", fallback.Status())
	}
}

func TestRecoveryRunsFallbackOnPrimaryFailure(t *testing.T) {
	n := NewRecovery("r", failingLeaf("primary"), succeedingLeaf("fallback"))
	status, err := n.Tick(bt.NewTickContext(nil))
	if err != nil || status != bt.Success {
		t.Fatalf("got (%s, %v), want (success, nil)", status, err)
	}
}

func TestRecoveryResultIsFallbacksResult(t *testing.T) {
	n := NewRecovery("r", failingLeaf("primary"), failingLeaf("fallback"))
	status, err := n.Tick(bt.NewTickContext(nil))
	if err != nil || status != bt.Failure {
		t.Fatalf("got (%s, %v), want (failure, nil)", status, err)
	}
}

func TestRecoveryRequiresExactlyTwoChildren(t *testing.T) {
	n := bt.NewBaseNode("r", "Recovery", recoveryBehavior{}, nil, succeedingLeaf("only"))
	_, err := n.Tick(bt.NewTickContext(nil))
	if err == nil {
		t.Fatal("expected a configuration error for a recovery node with one child")
	}
}
