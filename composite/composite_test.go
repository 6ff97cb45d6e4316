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

// scriptedLeaf returns a leaf that pops one status off results per tick,
// repeating the final entry once exhausted, and counts how many times it
// was ticked - shared by the composite package's tests.
func scriptedLeaf(id string, results ...bt.Status) *bt.BaseNode {
	calls := 0
	return bt.NewAction(id, func(ctx *bt.TickContext) (bt.Status, error) {
		idx := calls
		if idx >= len(results) {
			idx = len(results) - 1
		}
		calls++
		return results[idx], nil
	}, nil)
}

func failingLeaf(id string) *bt.BaseNode {
	return scriptedLeaf(id, bt.Failure)
}

func succeedingLeaf(id string) *bt.BaseNode {
	return scriptedLeaf(id, bt.Success)
}
