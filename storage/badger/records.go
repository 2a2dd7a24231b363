package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/depot/core"
	"github.com/poiesic/depot/storage"
)

// RecordStore implements storage.RecordStore on BadgerDB.
//
// Writes are serialized by a store-level mutex: Badger's own conflict
// detection would surface a duplicate race as a retryable commit error,
// while the contract requires the losing writer to observe a deterministic
// *storage.ConflictError.
type RecordStore struct {
	backend *Backend
	writeMu sync.Mutex
	faults  storage.FaultInjector
}

var _ storage.RecordStore = (*RecordStore)(nil)

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithFaultInjector sets the injector consulted before every insert.
// Default is storage.NoFaults().
func WithFaultInjector(f storage.FaultInjector) Option {
	return func(s *RecordStore) {
		if f == nil {
			f = storage.NoFaults()
		}
		s.faults = f
	}
}

// NewRecordStore creates a record store over an open backend.
// Closing the store closes the backend.
func NewRecordStore(backend *Backend, opts ...Option) *RecordStore {
	s := &RecordStore{
		backend: backend,
		faults:  storage.NoFaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// conflictTx reports the first uniqueness violation for rec within tx.
// The ID check wins when both ID and title collide.
func (s *RecordStore) conflictTx(tx *badger.Txn, rec *core.Record) error {
	if _, err := tx.Get(makeRecordKey(rec.Id)); err == nil {
		return storage.NewDuplicateIDError(rec)
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	if _, err := tx.Get(makeTitleKey(rec.Title)); err == nil {
		return storage.NewDuplicateTitleError(rec)
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	return nil
}

// Conflict implements storage.RecordStore.
func (s *RecordStore) Conflict(ctx context.Context, rec *core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStoreClosed
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		return s.conflictTx(tx, rec)
	}, false)
}

// Put implements storage.RecordStore.
func (s *RecordStore) Put(ctx context.Context, rec *core.Record) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if s.backend.IsClosed() {
		return time.Time{}, storage.ErrStoreClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	storedAt := time.Now().UTC()
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if err := s.conflictTx(tx, rec); err != nil {
			return err
		}
		if err := s.faults.BeforeWrite(rec); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		envelope := &storage.StoredRecord{
			Record:      *rec.Clone(),
			StoredAt:    storedAt,
			Fingerprint: rec.Fingerprint(),
		}
		if err := tx.Set(makeRecordKey(rec.Id), storage.MarshalStoredRecord(envelope)); err != nil {
			return err
		}
		if err := tx.Set(makeTitleKey(rec.Title), []byte(rec.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return time.Time{}, err
	}
	return storedAt, nil
}

// readRecord reads the envelope at key and verifies its fingerprint.
func (s *RecordStore) readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var envelope *storage.StoredRecord
	err = item.Value(func(val []byte) error {
		var err error
		envelope, err = storage.UnmarshalStoredRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	if envelope.Record.Fingerprint() != envelope.Fingerprint {
		return nil, fmt.Errorf("%w: record %q", storage.ErrFingerprintMismatch, envelope.Record.Id)
	}
	return &envelope.Record, nil
}

// Get implements storage.RecordStore.
func (s *RecordStore) Get(ctx context.Context, id string) (*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStoreClosed
	}

	var rec *core.Record
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		rec, err = s.readRecord(tx, makeRecordKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByTitle implements storage.RecordStore.
func (s *RecordStore) GetByTitle(ctx context.Context, title string) (*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStoreClosed
	}

	var rec *core.Record
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTitleKey(title))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		rec, err = s.readRecord(tx, makeRecordKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Count implements storage.RecordStore.
func (s *RecordStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.backend.IsClosed() {
		return 0, storage.ErrStoreClosed
	}

	var count int
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close implements storage.RecordStore.
func (s *RecordStore) Close() error {
	return s.backend.Close()
}
