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

// Package decorator provides the single-child node kinds that modify
// their child's result: Invert, Retry, Timeout, Delay, Repeat,
// ForceSuccess, ForceFailure, RunOnce, KeepRunningUntilFailure,
// Precondition, and SoftAssert.
package decorator

import "github.com/arbortick/bt"

func child(n *bt.BaseNode) *bt.BaseNode {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func haltChild(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }
