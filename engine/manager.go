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

package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/arbortick/bt"
	"github.com/joeycumines/go-bigbuff"
)

// Manager runs a set of TickEngine sessions concurrently and stops all of
// them gracefully on the first failure - grounded directly on the
// teacher's Manager (a bigbuff.Worker-backed aggregate Ticker), with
// Ticker's Add/Done/Err/Stop generalized to TickEngine sessions.
type Manager struct {
	mu      sync.RWMutex
	once    sync.Once
	worker  bigbuff.Worker
	done    chan struct{}
	stop    chan struct{}
	started chan managedSession
	errs    []error
}

type managedSession struct {
	engine *TickEngine
	done   func()
}

// ErrManagerStopped is returned by Manager.Add once the manager has begun
// stopping.
var ErrManagerStopped = errors.New("engine: manager already stopped")

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{
		done:    make(chan struct{}),
		stop:    make(chan struct{}),
		started: make(chan managedSession),
	}
}

// Done closes once every added session has finished and Manager.Stop has
// been called (directly, or implicitly by a session failing).
func (m *Manager) Done() <-chan struct{} { return m.done }

// Err returns a combined error of every session that failed, or nil.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.errs) == 0 {
		return nil
	}
	return multiErr(m.errs)
}

// Stop signals every running session to halt and stops accepting new
// sessions.
func (m *Manager) Stop() {
	m.once.Do(func() {
		close(m.stop)
		m.start()()
	})
}

// Add registers engine to run under the manager's supervision: Add blocks
// until the tree reaches a terminal status or ctx is cancelled, then
// returns the error (if any). A session error stops the whole manager.
func (m *Manager) Add(ctx context.Context, e *TickEngine) error {
	if e == nil {
		return errors.New("engine: Manager.Add nil engine")
	}
	done := m.start()
	select {
	case <-m.stop:
		done()
		return ErrManagerStopped
	default:
	}
	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-m.stop:
		case <-sessCtx.Done():
		}
		cancel()
	}()

	status, err := e.TickWhileRunning(sessCtx)
	done()
	if err == nil && status == bt.Failure {
		err = errors.New("engine: session " + e.Ctx.SessionID + " reported Failure")
	}
	if err != nil {
		m.mu.Lock()
		m.errs = append(m.errs, err)
		m.mu.Unlock()
		m.Stop()
	}
	return err
}

func (m *Manager) start() (done func()) { return m.worker.Do(m.run) }

func (m *Manager) run(stop <-chan struct{}) {
	<-stop
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

type multiErr []error

func (e multiErr) Error() string {
	var b []byte
	for i, err := range e {
		if i != 0 {
			b = append(b, " | "...)
		}
		b = append(b, err.Error()...)
	}
	return string(b)
}
