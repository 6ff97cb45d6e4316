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

package registry

import (
	"github.com/arbortick/bt"
	"github.com/arbortick/bt/composite"
	"github.com/arbortick/bt/decorator"
)

// RegisterBuiltins registers every composite and decorator node kind
// except Precondition under its canonical type name, adapting each
// package's typed constructor to the Registry's uniform Constructor shape.
// Actions are domain-specific and registered separately by callers via
// Register with an ActionFunc-backed Constructor.
func RegisterBuiltins(r *Registry) {
	r.Register("Sequence", Metadata{Category: "composite", MinChildren: 0, MaxChildren: -1}, nodeTypeCtor(composite.NewSequence))
	r.Register("MemorySequence", Metadata{Category: "composite", MinChildren: 0, MaxChildren: -1}, nodeTypeCtor(composite.NewMemorySequence))
	r.Register("ReactiveSequence", Metadata{Category: "composite", MinChildren: 0, MaxChildren: -1}, nodeTypeCtor(composite.NewReactiveSequence))
	r.Register("Selector", Metadata{Category: "composite", MinChildren: 0, MaxChildren: -1}, nodeTypeCtor(composite.NewSelector))
	r.Register("Fallback", Metadata{Category: "composite", MinChildren: 0, MaxChildren: -1}, nodeTypeCtor(composite.NewFallback))

	r.Register("Parallel", Metadata{Category: "composite", MinChildren: 1, MaxChildren: -1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return composite.NewParallel(id, config, children...), nil
	})
	r.Register("ForEach", Metadata{Category: "composite", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return composite.NewForEach(id, config, children[0]), nil
	})
	r.Register("While", Metadata{Category: "composite", MinChildren: 2, MaxChildren: 2}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return composite.NewWhile(id, config, children[0], children[1]), nil
	})
	r.Register("Conditional", Metadata{Category: "composite", MinChildren: 2, MaxChildren: 3}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		var elseBranch *bt.BaseNode
		if len(children) == 3 {
			elseBranch = children[2]
		}
		return composite.NewConditional(id, children[0], children[1], elseBranch), nil
	})
	r.Register("Recovery", Metadata{Category: "composite", MinChildren: 2, MaxChildren: 2}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return composite.NewRecovery(id, children[0], children[1]), nil
	})
	r.Register("SubTree", Metadata{Category: "composite", MinChildren: 0, MaxChildren: 0}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		treeID, _ := config["tree_id"].(string)
		return composite.NewSubTree(id, treeID), nil
	})

	r.Register("Invert", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return decorator.NewInvert(id, children[0]), nil
	})
	r.Register("ForceSuccess", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return decorator.NewForceSuccess(id, children[0]), nil
	})
	r.Register("ForceFailure", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return decorator.NewForceFailure(id, children[0]), nil
	})
	r.Register("Retry", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		maxAttempts, _ := intConfig(config, "max_attempts")
		retryDelayMS, _ := intConfig(config, "retry_delay_ms")
		return decorator.NewRetryWithDelay(id, maxAttempts, int64(retryDelayMS), children[0]), nil
	})
	r.Register("Timeout", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		ms, ok := intConfig(config, "timeout_ms")
		if !ok || ms <= 0 {
			return nil, &bt.ConfigurationError{NodeID: id, Message: "Timeout requires a positive timeout_ms"}
		}
		return decorator.NewTimeout(id, int64(ms), children[0]), nil
	})
	r.Register("Delay", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		ms, _ := intConfig(config, "delay_ms")
		return decorator.NewDelay(id, int64(ms), children[0]), nil
	})
	r.Register("Repeat", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		count, _ := intConfig(config, "count")
		return decorator.NewRepeat(id, count, children[0]), nil
	})
	r.Register("RunOnce", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return decorator.NewRunOnce(id, children[0]), nil
	})
	r.Register("KeepRunningUntilFailure", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return decorator.NewKeepRunningUntilFailure(id, children[0]), nil
	})
	r.Register("SoftAssert", Metadata{Category: "decorator", MinChildren: 1, MaxChildren: 1}, func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return decorator.NewSoftAssert(id, children[0]), nil
	})
	// Precondition is registered by callers that have a predicate resolver
	// to offer (declarative predicates aren't expressible as plain config
	// data); RegisterBuiltins leaves it unregistered.
}

// nodeTypeCtor adapts a variadic-children constructor (the shape shared by
// Sequence/Selector family nodes, which carry no config) to Constructor.
func nodeTypeCtor(fn func(id string, children ...*bt.BaseNode) *bt.BaseNode) Constructor {
	return func(id string, config map[string]any, children []*bt.BaseNode) (*bt.BaseNode, error) {
		return fn(id, children...), nil
	}
}

// intConfig reads an int out of a possibly-nil config map, accepting the
// numeric shapes YAML/JSON decoders commonly produce.
func intConfig(config map[string]any, key string) (int, bool) {
	if config == nil {
		return 0, false
	}
	switch v := config[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
