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

import "context"

// Cancellation is an observable cancellation token. Cancelled is a
// non-blocking test; Done supports a race-friendly "await cancel" primitive
// for implementations (e.g. the default Sleeper) that need to race a
// sleep against cancellation.
type Cancellation interface {
	// Cancelled reports, without blocking, whether cancellation has been
	// requested.
	Cancelled() bool
	// Done returns a channel that is closed once cancellation has been
	// requested.
	Done() <-chan struct{}
}

// contextCancellation adapts a context.Context to Cancellation.
type contextCancellation struct{ ctx context.Context }

// NewCancellation adapts a context.Context to Cancellation. A nil ctx
// yields a Cancellation that is never cancelled.
func NewCancellation(ctx context.Context) Cancellation {
	if ctx == nil {
		ctx = context.Background()
	}
	return contextCancellation{ctx: ctx}
}

func (c contextCancellation) Cancelled() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

func (c contextCancellation) Done() <-chan struct{} { return c.ctx.Done() }

// CheckCancelled is the single cooperative-cancellation checkpoint used at
// composite/decorator boundaries: before each child tick, at each loop
// iteration, and at decorator entry. It returns an *OperationCancelled
// error (a propagating error kind, see errors.go) if ctx's cancellation has
// been requested.
func CheckCancelled(ctx *TickContext) error {
	if ctx == nil || ctx.Cancellation == nil {
		return nil
	}
	if ctx.Cancellation.Cancelled() {
		return &OperationCancelled{}
	}
	return nil
}
