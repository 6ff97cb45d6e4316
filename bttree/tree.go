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

// Package bttree provides a navigable wrapper around a built *bt.BaseNode
// tree: path/id indices for locating and hot-replacing nodes, and a debug
// printer grounded on the teacher's xlab/treeprint-based Printer.
package bttree

import (
	"fmt"
	"strings"

	"github.com/arbortick/bt"
)

// Tree indexes a built node tree by both a slash-separated id path (e.g.
// "root/guard/action") and by bare node id, so callers can navigate or
// hot-replace a subtree without walking Children by hand.
type Tree struct {
	Root      *bt.BaseNode
	pathIndex map[string]*bt.BaseNode
	idIndex   map[string]*bt.BaseNode
	parentOf  map[string]*bt.BaseNode
	pathOf    map[string]string
}

// NewTree wraps root, building its path and id indices.
func NewTree(root *bt.BaseNode) *Tree {
	t := &Tree{
		Root:      root,
		pathIndex: make(map[string]*bt.BaseNode),
		idIndex:   make(map[string]*bt.BaseNode),
		parentOf:  make(map[string]*bt.BaseNode),
		pathOf:    make(map[string]string),
	}
	t.rebuildIndex()
	return t
}

func (t *Tree) rebuildIndex() {
	t.pathIndex = make(map[string]*bt.BaseNode)
	t.idIndex = make(map[string]*bt.BaseNode)
	t.parentOf = make(map[string]*bt.BaseNode)
	t.pathOf = make(map[string]string)
	if t.Root != nil {
		t.index(t.Root, t.Root.ID, nil)
	}
}

func (t *Tree) index(n *bt.BaseNode, path string, parent *bt.BaseNode) {
	t.pathIndex[path] = n
	t.idIndex[n.ID] = n
	t.parentOf[n.ID] = parent
	t.pathOf[n.ID] = path
	for _, c := range n.Children {
		t.index(c, path+"/"+c.ID, n)
	}
}

// FindNodeByPath returns the node at a slash-separated id path (e.g.
// "root/guard/action"), or an error if no such path is indexed.
func (t *Tree) FindNodeByPath(path string) (*bt.BaseNode, error) {
	n, ok := t.pathIndex[path]
	if !ok {
		return nil, fmt.Errorf("bttree: no node at path %q", path)
	}
	return n, nil
}

// FindNodeByID returns the node with the given id, or an error if absent.
func (t *Tree) FindNodeByID(id string) (*bt.BaseNode, error) {
	n, ok := t.idIndex[id]
	if !ok {
		return nil, fmt.Errorf("bttree: no node with id %q", id)
	}
	return n, nil
}

// GetNodePath returns the indexed path for n, or an error if n isn't part
// of this tree.
func (t *Tree) GetNodePath(n *bt.BaseNode) (string, error) {
	return t.GetNodePathByID(n.ID)
}

// GetNodePathByID returns the indexed path for the node with the given
// id, or an error if absent.
func (t *Tree) GetNodePathByID(id string) (string, error) {
	p, ok := t.pathOf[id]
	if !ok {
		return "", fmt.Errorf("bttree: no node with id %q", id)
	}
	return p, nil
}

// ReplaceNodeAtPath swaps the node at path for replacement (wiring
// replacement's Parent and splicing it into the parent's Children slice
// in the same position), then rebuilds the tree's indices. Replacing the
// root (path == t.Root.ID) simply reassigns t.Root.
func (t *Tree) ReplaceNodeAtPath(path string, replacement *bt.BaseNode) error {
	old, ok := t.pathIndex[path]
	if !ok {
		return fmt.Errorf("bttree: no node at path %q", path)
	}
	parent := t.parentOf[old.ID]
	if parent == nil {
		t.Root = replacement
		t.rebuildIndex()
		return nil
	}
	replaced := false
	for i, c := range parent.Children {
		if c == old {
			parent.Children[i] = replacement
			replaced = true
			break
		}
	}
	if !replaced {
		return fmt.Errorf("bttree: node at path %q was not found among its parent's children", path)
	}
	replacement.Parent = parent
	t.rebuildIndex()
	return nil
}

// ParsePathWithTreeID splits a cross-tree reference of the form
// "#TreeId/a/b" into its tree id ("TreeId") and the remaining in-tree path
// ("a/b"). ok is false if raw doesn't start with '#'.
func ParsePathWithTreeID(raw string) (treeID, path string, ok bool) {
	if !strings.HasPrefix(raw, "#") {
		return "", "", false
	}
	rest := raw[1:]
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i], rest[i+1:], true
	}
	return rest, "", true
}
