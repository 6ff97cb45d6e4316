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

package bt

// nodeWrapperBehavior adapts an arbitrary functional Node (e.g. one cloned
// out of a tree-registry template) into a BaseNode leaf, bridging the
// functional Node/Tick primitive back into the stateful BaseNode envelope
// used by composites/decorators/SubTree.
type nodeWrapperBehavior struct{ inner Node }

func (w nodeWrapperBehavior) ExecuteTick(ctx *TickContext, n *BaseNode) (Status, error) {
	return w.inner.Tick(ctx)
}

// WrapNode adapts inner to a BaseNode, so it can be attached as a child of
// a BaseNode-based composite/decorator (used by SubTree to attach a cloned
// tree template).
func WrapNode(id string, inner Node) *BaseNode {
	return NewBaseNode(id, "wrapped", nodeWrapperBehavior{inner: inner}, nil)
}
