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

// Package bt provides a behavior tree execution engine: node model, tick
// protocol, composites, decorators, blackboard, registry/loader and the
// driving tick engine live across this package and its subpackages.
package bt

import "fmt"

const (
	// Idle is the state of a node that has never been ticked, or that has
	// been reset. It is the zero value of Status.
	Idle Status = iota
	// Running indicates that the Tick for a given Node is currently running.
	Running
	// Success indicates that the Tick for a given Node completed successfully.
	Success
	// Failure indicates that the Tick for a given Node failed to complete successfully.
	Failure
)

// Status is a type with four valid values, Idle, Running, Success, and
// Failure. Idle is the initial state; Success and Failure are terminal,
// though a node may transition back to Idle via Reset.
type Status int

// Valid reports whether s is one of the four defined Status values.
func (s Status) Valid() bool {
	switch s {
	case Idle, Running, Success, Failure:
		return true
	default:
		return false
	}
}

// Terminal reports whether s is Success or Failure.
func (s Status) Terminal() bool {
	return s == Success || s == Failure
}

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return `idle`
	case Running:
		return `running`
	case Success:
		return `success`
	case Failure:
		return `failure`
	default:
		return fmt.Sprintf("unknown status (%d)", int(s))
	}
}
