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

package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/arbortick/bt/engine"
	"github.com/go-redis/redis/v7"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "bt:test:")
}

func TestStoreSaveThenLoadReturnsMostRecentSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, engine.Snapshot{SessionID: "sess-1", Status: "running"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, engine.Snapshot{SessionID: "sess-1", Status: "success"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, ok, err := s.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected a snapshot to be found")
	}
	if snap.Status != "success" {
		t.Fatalf("Status = %q, want success (the most recently saved)", snap.Status)
	}
}

func TestStoreLoadReportsNotFoundForUnknownSession(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.Load(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for an unknown session")
	}
}

func TestStoreListReturnsNewestLast(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, status := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, engine.Snapshot{SessionID: "sess-2", Status: status}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	snaps, err := s.List(ctx, "sess-2", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("len(snaps) = %d, want 3", len(snaps))
	}
	if snaps[len(snaps)-1].Status != "c" {
		t.Fatalf("last entry Status = %q, want c", snaps[len(snaps)-1].Status)
	}
}

func TestStoreSaveTrimsToMaxLen(t *testing.T) {
	s := newTestStore(t)
	s.MaxLen = 2
	ctx := context.Background()
	for _, status := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, engine.Snapshot{SessionID: "sess-3", Status: status}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	snaps, err := s.List(ctx, "sess-3", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("len(snaps) = %d, want 2 (trimmed to MaxLen)", len(snaps))
	}
	if snaps[0].Status != "b" || snaps[1].Status != "c" {
		t.Fatalf("snaps = %v, want [b c]", snaps)
	}
}
