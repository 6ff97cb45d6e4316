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
	"fmt"
	"reflect"

	"github.com/arbortick/bt"
)

// foreachBehavior implements ForEach: reads a sequence from
// blackboard[collection_key], and for each element writes it to
// blackboard[item_key] (and optionally blackboard[index_key]) before
// ticking the single body child.
type foreachBehavior struct{}

func (foreachBehavior) ExecuteTick(ctx *bt.TickContext, n *bt.BaseNode) (bt.Status, error) {
	if len(n.Children) == 0 {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "foreach requires one child"}
	}
	collectionKey, _ := n.ConfigString("collection_key")
	itemKey, _ := n.ConfigString("item_key")
	if collectionKey == "" || itemKey == "" {
		return bt.Failure, &bt.ConfigurationError{NodeID: n.ID, Message: "foreach requires collection_key and item_key"}
	}
	indexKey, hasIndexKey := n.ConfigString("index_key")

	raw, ok := ctx.Blackboard.Get(collectionKey)
	if !ok {
		return bt.Failure, &bt.OperationalFailure{NodeID: n.ID, Message: fmt.Sprintf("missing collection key %q", collectionKey)}
	}
	items, err := toSlice(raw)
	if err != nil {
		return bt.Failure, &bt.OperationalFailure{NodeID: n.ID, Message: "collection value is not a sequence", Cause: err}
	}
	if len(items) == 0 {
		return bt.Success, nil
	}

	body := n.Children[0]
	cursor := 0
	if v, ok := ctx.RunningOps.Get(n.ID); ok {
		cursor = v.(int)
	}

	for cursor < len(items) {
		if err := bt.CheckCancelled(ctx); err != nil {
			return bt.Failure, err
		}
		ctx.Blackboard.Set(itemKey, items[cursor])
		if hasIndexKey {
			ctx.Blackboard.Set(indexKey, cursor)
		}
		status, err := body.Tick(ctx)
		if err != nil {
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, err
		}
		switch status {
		case bt.Running:
			ctx.RunningOps.Set(n.ID, cursor)
			return bt.Running, nil
		case bt.Failure:
			ctx.RunningOps.Clear(n.ID)
			return bt.Failure, nil
		default:
			body.Reset(ctx)
			cursor++
		}
	}
	ctx.RunningOps.Clear(n.ID)
	return bt.Success, nil
}

func (foreachBehavior) OnHalt(ctx *bt.TickContext, n *bt.BaseNode) { bt.HaltChildren(ctx, n) }

// toSlice normalizes common sequence shapes (a Go slice via reflection, or
// []any, as produced by JSON/YAML decoders) into []any.
func toSlice(v any) ([]any, error) {
	if v == nil {
		return nil, fmt.Errorf("nil value")
	}
	if s, ok := v.([]any); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("value of type %T is not a sequence", v)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// NewForEach constructs a ForEach node. config must carry collection_key
// and item_key, and may carry index_key.
func NewForEach(id string, config map[string]any, body *bt.BaseNode) *bt.BaseNode {
	return bt.NewBaseNode(id, "ForEach", foreachBehavior{}, config, body)
}
