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

// Package engine provides the driver that repeatedly ticks a node tree:
// adaptive tick pacing, per-session snapshotting, execution feedback
// aggregation, and an aggregate Manager running many sessions together.
// Grounded on the teacher's Ticker/Manager (time.Ticker-driven run loop,
// bigbuff.Worker-backed aggregate stop), generalized from a fixed
// duration to the TickDelayStrategy's adaptive pacing and from a plain
// error/Done pair to the richer Snapshot/event feedback this tree model
// carries.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arbortick/bt"
	"github.com/arbortick/bt/blackboard"
	"github.com/arbortick/bt/bttree"
	"github.com/arbortick/bt/event"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// ErrEngineAlreadyTicking is returned by Tick when called while a prior
// Tick on the same engine is still in flight - the engine forbids
// re-entrant tick calls.
var ErrEngineAlreadyTicking = errors.New("engine: tick already in progress")

// TickEngine drives a single node tree: one TickEngine corresponds to one
// execution session, identified by its TickContext's SessionID.
type TickEngine struct {
	Root  *bt.BaseNode
	Tree  *bttree.Tree
	Ctx   *bt.TickContext
	Delay *TickDelayStrategy
	Store SnapshotStore

	Logger logrus.FieldLogger
	Tracer opentracing.Tracer

	// AutoReset, if set, resets Root before ticking whenever it is
	// already in a terminal status, instead of leaving it Success/Failure
	// until an explicit Reset call.
	AutoReset bool
	// TickTimeout, if positive, races each call to Root.Tick against a
	// timer; on expiry Root is halted and Tick returns a
	// *bt.TickTimeoutError instead of waiting for the tick to finish.
	TickTimeout time.Duration
	// OnTick, if set, is invoked after every tick that completes without
	// error, with the status it reported.
	OnTick func(bt.Status)
	// OnError, if set, is invoked after every tick that reports a
	// propagating error (including a tick timeout).
	OnError func(error)

	mu      sync.Mutex
	ticking bool

	lastFingerprint    string
	logs               []string
	firstFailingNodeID string
	firstFailingError  string
}

// Option configures a TickEngine at construction time.
type Option func(*TickEngine)

// WithDelayStrategy overrides the default adaptive TickDelayStrategy.
func WithDelayStrategy(d *TickDelayStrategy) Option { return func(e *TickEngine) { e.Delay = d } }

// WithSnapshotStore overrides the default no-op SnapshotStore.
func WithSnapshotStore(s SnapshotStore) Option { return func(e *TickEngine) { e.Store = s } }

// WithLogger overrides the default logrus.StandardLogger.
func WithLogger(l logrus.FieldLogger) Option { return func(e *TickEngine) { e.Logger = l } }

// WithTracer overrides the default opentracing.NoopTracer.
func WithTracer(t opentracing.Tracer) Option { return func(e *TickEngine) { e.Tracer = t } }

// WithAutoReset sets TickEngine.AutoReset.
func WithAutoReset(autoReset bool) Option { return func(e *TickEngine) { e.AutoReset = autoReset } }

// WithTickTimeout sets TickEngine.TickTimeout.
func WithTickTimeout(d time.Duration) Option { return func(e *TickEngine) { e.TickTimeout = d } }

// WithOnTick sets TickEngine.OnTick.
func WithOnTick(fn func(bt.Status)) Option { return func(e *TickEngine) { e.OnTick = fn } }

// WithOnError sets TickEngine.OnError.
func WithOnError(fn func(error)) Option { return func(e *TickEngine) { e.OnError = fn } }

// New constructs a TickEngine for root, attaching an event.Sink to ctx
// (if it doesn't already have one) that feeds the engine's log buffer and
// failure tracking.
func New(root *bt.BaseNode, ctx *bt.TickContext, opts ...Option) *TickEngine {
	if ctx == nil {
		ctx = bt.NewTickContext(blackboard.New())
	}
	e := &TickEngine{
		Root:   root,
		Tree:   bttree.NewTree(root),
		Ctx:    ctx,
		Delay:  NewAutoDelayStrategy(),
		Store:  NopSnapshotStore{},
		Logger: logrus.StandardLogger(),
		Tracer: opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if ctx.EventSink == nil {
		ctx.EventSink = event.NewSink()
	}
	ctx.EventSink.SubscribeAll(e.observe)
	return e
}

func (e *TickEngine) observe(ev event.Event) {
	switch ev.Kind {
	case event.Log:
		if data, ok := ev.Data.(event.LogData); ok {
			e.logs = append(e.logs, data.Level+": "+data.Message)
		}
	case event.Error:
		if e.firstFailingNodeID == "" {
			e.firstFailingNodeID = ev.NodeID
			if msg, ok := ev.Data.(string); ok {
				e.firstFailingError = msg
			}
		}
	}
}

// Tick runs exactly one tick of Root, emitting an OpenTracing span and a
// logrus diagnostic, then conditionally capturing a Snapshot (when the
// blackboard's fingerprint changed since the last capture, or when the
// tick reported Success or Failure). It rejects re-entrant calls
// (ErrEngineAlreadyTicking), and optionally races the tick against
// TickTimeout. A Root already in a terminal status is reset first when
// AutoReset is set; otherwise Tick returns that status without ticking.
func (e *TickEngine) Tick(ctx context.Context) (bt.Status, error) {
	e.mu.Lock()
	if e.ticking {
		e.mu.Unlock()
		return bt.Failure, ErrEngineAlreadyTicking
	}
	e.ticking = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.ticking = false
		e.mu.Unlock()
	}()

	span, _ := opentracing.StartSpanFromContextWithTracer(ctx, e.Tracer, "bt.Tick")
	defer span.Finish()

	if e.Root.Status().Terminal() {
		if !e.AutoReset {
			return e.Root.Status(), nil
		}
		e.Root.Reset(e.Ctx)
	}

	status, err := e.tickRoot(ctx)
	span.SetTag("bt.status", status.String())
	if err != nil {
		span.SetTag("error", true)
		e.Logger.WithError(err).WithField("session_id", e.Ctx.SessionID).Warn("tick returned an error")
		if e.OnError != nil {
			e.OnError(err)
		}
	} else {
		e.Logger.WithField("session_id", e.Ctx.SessionID).WithField("status", status.String()).Debug("tick completed")
		if e.OnTick != nil {
			e.OnTick(status)
		}
	}

	e.captureSnapshot(ctx, status)
	return status, err
}

// tickRoot runs Root.Tick, racing it against TickTimeout when configured -
// grounded on the teacher's Async tick wrapper (a goroutine reporting back
// over a buffered result channel). On expiry Root is halted and a
// *bt.TickTimeoutError is returned instead of waiting for the in-flight
// tick to finish.
func (e *TickEngine) tickRoot(ctx context.Context) (bt.Status, error) {
	if e.TickTimeout <= 0 {
		return e.Root.Tick(e.Ctx)
	}

	type result struct {
		status bt.Status
		err    error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		status, err := e.Root.Tick(e.Ctx)
		done <- result{status: status, err: err}
	}()

	timer := time.NewTimer(e.TickTimeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.status, r.err
	case <-timer.C:
		e.Root.Halt(e.Ctx)
		return bt.Failure, &bt.TickTimeoutError{Elapsed: time.Since(start), Limit: e.TickTimeout}
	}
}

func (e *TickEngine) captureSnapshot(ctx context.Context, status bt.Status) {
	fp, fpErr := e.Ctx.Blackboard.Fingerprint()
	if fpErr == nil && fp == e.lastFingerprint && status != bt.Success && status != bt.Failure {
		return
	}
	e.lastFingerprint = fp
	snap := Snapshot{
		SessionID:             e.Ctx.SessionID,
		Timestamp:             e.Ctx.Timestamp,
		Status:                status.String(),
		BlackboardFingerprint: fp,
		Blackboard:            e.blackboardDump(),
		Tree:                  e.Tree.String(),
		FirstFailingNodeID:    e.firstFailingNodeID,
		FirstFailingError:     e.firstFailingError,
		Logs:                  append([]string(nil), e.logs...),
	}
	if err := e.Store.Save(ctx, snap); err != nil {
		e.Logger.WithError(err).Warn("failed to save snapshot")
	}
}

func (e *TickEngine) blackboardDump() map[string]any {
	out := make(map[string]any)
	for _, k := range e.Ctx.Blackboard.Keys() {
		if v, ok := e.Ctx.Blackboard.Get(k); ok {
			out[k] = v
		}
	}
	return out
}

// TickWhileRunning repeatedly ticks Root, pacing successive ticks per
// Delay, until a terminal status, an error, or ctx is cancelled.
func (e *TickEngine) TickWhileRunning(ctx context.Context) (bt.Status, error) {
	for {
		status, err := e.Tick(ctx)
		if err != nil || status != bt.Running {
			return status, err
		}
		delay := e.Delay.Next(status)
		if delay <= 0 {
			select {
			case <-ctx.Done():
				return status, ctx.Err()
			default:
				continue
			}
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return status, ctx.Err()
		case <-timer.C:
		}
	}
}

// Halt halts Root if it is currently Running.
func (e *TickEngine) Halt() { e.Root.Halt(e.Ctx) }

// Reset resets Root and clears accumulated feedback (logs, first failure).
func (e *TickEngine) Reset() {
	e.Root.Reset(e.Ctx)
	e.logs = nil
	e.firstFailingNodeID = ""
	e.firstFailingError = ""
	e.lastFingerprint = ""
}

// GetSnapshots returns up to limit persisted Snapshots for this engine's
// session, delegating to the configured SnapshotStore.
func (e *TickEngine) GetSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	return e.Store.List(ctx, e.Ctx.SessionID, limit)
}

// ResumeFrom configures Ctx to fast-forward skip every node until nodeID
// is reached on the next Tick, per the TickContext.ResumeFromNodeID
// contract.
func (e *TickEngine) ResumeFrom(nodeID string) {
	e.Ctx.ResumeFromNodeID = nodeID
	e.Ctx.HasReachedResumePoint = false
}
