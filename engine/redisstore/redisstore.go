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

// Package redisstore provides a Redis-backed engine.SnapshotStore,
// keeping the latest N snapshots per session in a capped Redis list.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arbortick/bt/engine"
	"github.com/go-redis/redis/v7"
)

// defaultMaxPerSession caps how many snapshots are retained per session;
// older entries are trimmed off as new ones are pushed.
const defaultMaxPerSession = 100

// Store implements engine.SnapshotStore on top of a redis.Client.
type Store struct {
	Client    *redis.Client
	KeyPrefix string
	MaxLen    int64
}

// New constructs a Store. keyPrefix namespaces this store's keys (e.g.
// "bt:snapshots:"); an empty prefix is valid but discouraged outside
// tests.
func New(client *redis.Client, keyPrefix string) *Store {
	return &Store{Client: client, KeyPrefix: keyPrefix, MaxLen: defaultMaxPerSession}
}

func (s *Store) key(sessionID string) string {
	return s.KeyPrefix + sessionID
}

// Save appends snap to its session's list, trimming to MaxLen.
func (s *Store) Save(ctx context.Context, snap engine.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redisstore: marshalling snapshot: %w", err)
	}
	key := s.key(snap.SessionID)
	pipe := s.Client.WithContext(ctx).TxPipeline()
	pipe.RPush(key, data)
	maxLen := s.MaxLen
	if maxLen <= 0 {
		maxLen = defaultMaxPerSession
	}
	pipe.LTrim(key, -maxLen, -1)
	_, err = pipe.Exec()
	if err != nil {
		return fmt.Errorf("redisstore: saving snapshot: %w", err)
	}
	return nil
}

// Load returns the most recent snapshot for sessionID.
func (s *Store) Load(ctx context.Context, sessionID string) (engine.Snapshot, bool, error) {
	res, err := s.Client.WithContext(ctx).LRange(s.key(sessionID), -1, -1).Result()
	if err != nil {
		return engine.Snapshot{}, false, fmt.Errorf("redisstore: loading snapshot: %w", err)
	}
	if len(res) == 0 {
		return engine.Snapshot{}, false, nil
	}
	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(res[0]), &snap); err != nil {
		return engine.Snapshot{}, false, fmt.Errorf("redisstore: unmarshalling snapshot: %w", err)
	}
	return snap, true, nil
}

// List returns up to limit of the most recent snapshots for sessionID,
// newest last.
func (s *Store) List(ctx context.Context, sessionID string, limit int) ([]engine.Snapshot, error) {
	if limit <= 0 {
		limit = defaultMaxPerSession
	}
	res, err := s.Client.WithContext(ctx).LRange(s.key(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: listing snapshots: %w", err)
	}
	out := make([]engine.Snapshot, 0, len(res))
	for _, raw := range res {
		var snap engine.Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("redisstore: unmarshalling snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, nil
}
