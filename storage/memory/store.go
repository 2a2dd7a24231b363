// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package memory provides the in-memory reference implementation of
// storage.RecordStore.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/poiesic/depot/core"
	"github.com/poiesic/depot/storage"
)

// Store keeps records in memory, keyed by both ID and title for uniqueness
// checking. The record set is owned exclusively by the Store and mutated
// only by successful Put calls; the duplicate check and the insert share one
// critical section, so overlapping writes racing on the same ID or title
// resolve as one success and one conflict.
type Store struct {
	mu      sync.Mutex
	byID    map[string]*core.Record
	byTitle map[string]string // title -> record ID
	faults  storage.FaultInjector
	closed  bool
}

var _ storage.RecordStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithFaultInjector sets the injector consulted before every insert.
// Default is storage.NoFaults().
func WithFaultInjector(f storage.FaultInjector) Option {
	return func(s *Store) {
		if f == nil {
			f = storage.NoFaults()
		}
		s.faults = f
	}
}

// NewStore creates an empty in-memory record store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID:    make(map[string]*core.Record),
		byTitle: make(map[string]string),
		faults:  storage.NoFaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// conflictLocked reports the first uniqueness violation for rec.
// The ID check wins when both ID and title collide. Callers must hold s.mu.
func (s *Store) conflictLocked(rec *core.Record) error {
	if _, ok := s.byID[rec.Id]; ok {
		return storage.NewDuplicateIDError(rec)
	}
	if _, ok := s.byTitle[rec.Title]; ok {
		return storage.NewDuplicateTitleError(rec)
	}
	return nil
}

// Conflict implements storage.RecordStore.
func (s *Store) Conflict(ctx context.Context, rec *core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStoreClosed
	}
	return s.conflictLocked(rec)
}

// Put implements storage.RecordStore.
func (s *Store) Put(ctx context.Context, rec *core.Record) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return time.Time{}, storage.ErrStoreClosed
	}
	if err := s.conflictLocked(rec); err != nil {
		return time.Time{}, err
	}
	if err := s.faults.BeforeWrite(rec); err != nil {
		return time.Time{}, err
	}
	// The injector may stall to simulate slow I/O; honor a deadline that
	// expired meanwhile instead of inserting late.
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	stored := rec.Clone()
	s.byID[stored.Id] = stored
	s.byTitle[stored.Title] = stored.Id
	return time.Now().UTC(), nil
}

// Get implements storage.RecordStore.
func (s *Store) Get(ctx context.Context, id string) (*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrStoreClosed
	}
	rec, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return rec.Clone(), nil
}

// GetByTitle implements storage.RecordStore.
func (s *Store) GetByTitle(ctx context.Context, title string) (*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrStoreClosed
	}
	id, ok := s.byTitle[title]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

// Count implements storage.RecordStore.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, storage.ErrStoreClosed
	}
	return len(s.byID), nil
}

// Close implements storage.RecordStore. A closed store rejects every
// operation with storage.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
