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


// Package depot provides an asynchronous record storage service with a
// strict separation between three failure classes: invalid input (rejected
// synchronously by core.NewRecord, before any service call), business
// conflicts (*storage.ConflictError, the closed duplicate-ID/duplicate-title
// union), and infrastructure failures (every other error on the result
// channel).
package depot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/depot/core"
	"github.com/poiesic/depot/storage"
)

const defaultWriteTimeout = 30 * time.Second

// Result is the outcome of an asynchronous store operation.
//
// With a nil Err, StoredAt is the moment the record was written. An Err that
// is a *storage.ConflictError means the write was rejected by a business
// rule and is recoverable; any other Err is an infrastructure failure
// (injected fault, write timeout, pool shutdown) and the record was not
// stored. Business conflicts never arrive disguised as infrastructure
// errors, and infrastructure errors never match the conflict union.
type Result struct {
	StoredAt time.Time
	Err      error
}

// Service stores records asynchronously. It owns a RecordStore and a worker
// pool: the duplicate pre-checks of a store operation run synchronously on
// the caller's goroutine, the write itself runs on the pool.
type Service struct {
	store        storage.RecordStore
	pool         *ants.Pool
	writeTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithPoolSize sets the worker pool size for asynchronous writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size < 1 {
			size = 1
		}

		if s.pool != nil {
			s.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithWriteTimeout bounds the asynchronous write step. A write exceeding the
// timeout fails with an infrastructure error, never a conflict.
// Default is 30s.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Service) error {
		if d <= 0 {
			return ErrInvalidWriteTimeout
		}
		s.writeTimeout = d
		return nil
	}
}

// NewService creates a storage service over the given store.
func NewService(store storage.RecordStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:        store,
		pool:         pool,
		writeTimeout: defaultWriteTimeout,
		logger:       slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.pool.Release()
			return nil, optErr
		}
	}

	return s, nil
}

// Store submits one valid record for storage and returns a one-shot channel
// carrying the outcome. The channel is buffered and closed after a single
// Result, so receiving from it never blocks the service.
//
// Duplicate checks against the current store state run synchronously: when
// the record's ID or title is already taken, the returned channel already
// holds the *storage.ConflictError and no asynchronous work is started.
// Otherwise the write is handed to the worker pool, where the store
// re-checks uniqueness atomically with the insert, so overlapping calls
// racing on one ID or title resolve as exactly one success.
//
// ctx governs the synchronous pre-check only; the write itself is bounded
// by the configured write timeout.
func (s *Service) Store(ctx context.Context, rec *core.Record) <-chan Result {
	out := make(chan Result, 1)

	if err := s.store.Conflict(ctx, rec); err != nil {
		out <- Result{Err: err}
		close(out)
		return out
	}

	submitErr := s.pool.Submit(func() {
		defer close(out)

		writeCtx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()

		storedAt, err := s.store.Put(writeCtx, rec)
		if err != nil {
			if !storage.IsConflict(err) {
				s.logger.Error("record write failed", "id", rec.Id, "err", err)
				err = fmt.Errorf("store record %q: %w", rec.Id, err)
			}
			out <- Result{Err: err}
			return
		}
		out <- Result{StoredAt: storedAt}
	})
	if submitErr != nil {
		out <- Result{Err: fmt.Errorf("submit write for record %q: %w", rec.Id, submitErr)}
		close(out)
	}

	return out
}

// Get retrieves a stored record by ID.
// Returns storage.ErrNotFound if the record doesn't exist.
func (s *Service) Get(ctx context.Context, id string) (*core.Record, error) {
	return s.store.Get(ctx, id)
}

// GetByTitle retrieves a stored record by title.
// Returns storage.ErrNotFound if no record carries the title.
func (s *Service) GetByTitle(ctx context.Context, title string) (*core.Record, error) {
	return s.store.GetByTitle(ctx, title)
}

// Count reports the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Close releases the worker pool and closes the underlying store. Writes
// already running are allowed to finish; store operations submitted after
// Close resolve with an infrastructure error.
func (s *Service) Close() error {
	s.pool.Release()
	return s.store.Close()
}
