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

// subtreeBehavior implements SubTree: config["tree_id"] names a tree in
// the tick context's TreeRegistry. The first tick clones the referenced
// tree's root and attaches it as this node's only child; subsequent ticks
// simply delegate to it.
type subtreeBehavior struct {
	attached *bt.BaseNode
}

func (b *subtreeBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if b.attached == nil {
		treeID, ok := n.ConfigString("tree_id")
		if !ok || treeID == "" {
			return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "subtree requires a tree_id"}
		}
		if ctx.TreeRegistry == nil {
			return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "no tree registry available to resolve subtree"}
		}
		cloned, err := ctx.TreeRegistry.CloneTree(treeID)
		if err != nil {
			return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "resolving subtree " + treeID + ": " + err.Error()}
		}
		b.attached = bt.WrapNode(n.ID+"/"+treeID, cloned)
		b.attached.Parent = n
		n.Children = []*bt.BaseNode{b.attached}
	}
	return n.Children[0].Tick(ctx)
}

func (b *subtreeBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// NewSubTree constructs a SubTree node referencing treeID, resolved lazily
// against the tick context's TreeRegistry on first tick.
func NewSubTree(id, treeID string) *bt.BaseNode {
	return bt.NewBaseNode(id, "SubTree", &subtreeBehavior{}, map[string]any{"tree_id": treeID})
}
