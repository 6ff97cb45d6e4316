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

import (
	"errors"
	"fmt"
	"time"
)

// ConfigurationError is an authoring fault: a missing required child, a
// negative timeout, an unresolved SubTree, an unknown node type. It always
// propagates out of the whole tree - the base tick envelope re-surfaces it
// to the caller rather than converting it to Failure.
type ConfigurationError struct {
	NodeID  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("bt: configuration error at node %q: %s", e.NodeID, e.Message)
	}
	return fmt.Sprintf("bt: configuration error: %s", e.Message)
}

// OperationCancelled is raised by CheckCancelled or an aborted Sleeper. It
// always propagates out of the whole tree.
type OperationCancelled struct {
	NodeID string
}

func (e *OperationCancelled) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("bt: operation cancelled at node %q", e.NodeID)
	}
	return "bt: operation cancelled"
}

// OperationalFailure is any other error raised by an action: I/O failure,
// assertion, blackboard type mismatch. It never propagates - the base tick
// envelope converts it into Status Failure, recording Message in the
// node's LastError.
type OperationalFailure struct {
	NodeID  string
	Message string
	Cause   error
}

func (e *OperationalFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bt: operational failure at node %q: %s: %s", e.NodeID, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("bt: operational failure at node %q: %s", e.NodeID, e.Message)
}

func (e *OperationalFailure) Unwrap() error { return e.Cause }

// TickTimeoutError is an engine-level per-tick timeout. It halts the root
// and propagates to the engine's caller.
type TickTimeoutError struct {
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TickTimeoutError) Error() string {
	return fmt.Sprintf("bt: tick exceeded timeout of %s (ran for %s)", e.Limit, e.Elapsed)
}

// propagates reports whether err is a propagating error kind
// (ConfigurationError, OperationCancelled, or TickTimeoutError) per the
// error taxonomy's propagation policy - the base tick envelope re-surfaces
// these rather than converting them to Status Failure.
func propagates(err error) bool {
	if err == nil {
		return false
	}
	var cfg *ConfigurationError
	var cancelled *OperationCancelled
	var timeout *TickTimeoutError
	return errors.As(err, &cfg) || errors.As(err, &cancelled) || errors.As(err, &timeout)
}
