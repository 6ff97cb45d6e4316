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

package bttree

import (
	"bytes"
	"fmt"

	"github.com/arbortick/bt"
	"github.com/xlab/treeprint"
)

// String renders t as an indented tree (via xlab/treeprint, as the
// teacher's Node.String does for its functional Node), one line per node
// showing its name (or id when unnamed), type, current status, and last
// error when one is recorded.
func (t *Tree) String() string {
	if t.Root == nil {
		return "<nil>"
	}
	root := treeprint.New()
	root.SetValue(nodeLabel(t.Root))
	build(root, t.Root)
	b := root.Bytes()
	if l := len(b); l != 0 && b[l-1] == '\n' {
		b = b[:l-1]
	}
	return string(bytes.TrimSpace(b))
}

func build(branch treeprint.Tree, n *bt.BaseNode) {
	for _, c := range n.Children {
		child := branch.AddBranch(nodeLabel(c))
		build(child, c)
	}
}

func nodeLabel(n *bt.BaseNode) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	errSuffix := ""
	if n.LastError() != "" {
		errSuffix = fmt.Sprintf(" err=%q", n.LastError())
	}
	return fmt.Sprintf("%s (%s) [%s]%s", name, n.Type, n.Status(), errSuffix)
}
