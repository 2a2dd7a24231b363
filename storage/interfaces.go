package storage

import (
	"context"
	"time"

	"github.com/poiesic/depot/core"
)

// RecordStore persists records and enforces the uniqueness rules on ID and
// title. Implementations must be thread-safe, and must perform the duplicate
// check and the insert inside one critical section: two overlapping writes
// racing on the same ID or title resolve as exactly one success and one
// *ConflictError, never two successes.
type RecordStore interface {
	// Conflict reports a *ConflictError if storing rec now would violate a
	// uniqueness rule, without writing anything. A nil result is advisory:
	// the state may change before a later Put runs, which re-checks.
	Conflict(ctx context.Context, rec *core.Record) error

	// Put atomically checks uniqueness and inserts the record, returning the
	// write timestamp (UTC). A *ConflictError means a duplicate ID or title;
	// any other error is an infrastructure failure. On any error the store
	// is left unchanged.
	Put(ctx context.Context, rec *core.Record) (time.Time, error)

	// Get retrieves a record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, id string) (*core.Record, error)

	// GetByTitle retrieves a record by title.
	// Returns ErrNotFound if no record carries the title.
	GetByTitle(ctx context.Context, title string) (*core.Record, error)

	// Count reports the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close closes the store and releases its resources.
	Close() error
}
