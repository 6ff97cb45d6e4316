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
	"time"
)

// Snapshot is a point-in-time capture of an execution session, cheap
// enough to consider every tick thanks to blackboard.Fingerprint: a full
// Snapshot (tree render + blackboard dump) is only assembled when the
// fingerprint changed since the previous capture or the tick reported a
// terminal status.
type Snapshot struct {
	SessionID             string
	Timestamp             time.Time
	Status                string
	BlackboardFingerprint string
	Blackboard            map[string]any
	Tree                  string
	FirstFailingNodeID    string
	FirstFailingError     string
	Logs                  []string
}

// SnapshotStore persists Snapshots for later inspection or resume. The
// engine itself retains no Snapshot after handing it to Save; a
// SnapshotStore is how a host records execution history.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, sessionID string) (Snapshot, bool, error)
	List(ctx context.Context, sessionID string, limit int) ([]Snapshot, error)
}

// NopSnapshotStore discards every Save and never finds anything - the
// default when a TickEngine is constructed without an explicit store.
type NopSnapshotStore struct{}

func (NopSnapshotStore) Save(context.Context, Snapshot) error { return nil }
func (NopSnapshotStore) Load(context.Context, string) (Snapshot, bool, error) {
	return Snapshot{}, false, nil
}
func (NopSnapshotStore) List(context.Context, string, int) ([]Snapshot, error) { return nil, nil }
