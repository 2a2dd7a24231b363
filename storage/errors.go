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


package storage

import (
	"errors"
	"fmt"

	"github.com/poiesic/depot/core"
)

// Infrastructure-side errors. None of these are business conflicts.
var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates that the store is closed.
	ErrStoreClosed = errors.New("store is closed")

	// ErrStoreUnavailable indicates the backing store failed during a write.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")

	// ErrFingerprintMismatch indicates a stored payload no longer matches
	// the fingerprint recorded at write time.
	ErrFingerprintMismatch = errors.New("fingerprint mismatch")
)

// ConflictKind identifies which uniqueness rule a write violated.
//
// The kind set is fixed at the RecordStore boundary: adding a kind is a
// breaking interface change, so business code can switch over it
// exhaustively without a silently-unhandled case appearing later.
type ConflictKind int

const (
	// ConflictDuplicateID means a record with the same ID is already stored.
	ConflictDuplicateID ConflictKind = iota + 1
	// ConflictDuplicateTitle means a record with the same title is already stored.
	ConflictDuplicateTitle
)

// String returns a human-readable name for the conflict kind.
func (k ConflictKind) String() string {
	switch k {
	case ConflictDuplicateID:
		return "duplicate ID"
	case ConflictDuplicateTitle:
		return "duplicate title"
	default:
		return fmt.Sprintf("ConflictKind(%d)", int(k))
	}
}

// ConflictError is a business-rule conflict detected against the current
// store state. It carries the rejected record for diagnostic context.
//
// Conflicts are recoverable: the caller picks a new ID or title, or rejects
// the submission with a message. They are the only store errors that belong
// to normal control flow.
type ConflictError struct {
	Kind   ConflictKind
	Record *core.Record // the rejected record, as submitted
}

// NewDuplicateIDError reports that rec's ID is already taken.
func NewDuplicateIDError(rec *core.Record) *ConflictError {
	return &ConflictError{Kind: ConflictDuplicateID, Record: rec}
}

// NewDuplicateTitleError reports that rec's title is already taken.
func NewDuplicateTitleError(rec *core.Record) *ConflictError {
	return &ConflictError{Kind: ConflictDuplicateTitle, Record: rec}
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: record %q (title %q)", e.Kind, e.Record.Id, e.Record.Title)
}

// IsConflict reports whether err is a business conflict. Every other error a
// store returns is an infrastructure failure.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// AsConflict extracts the conflict from err, if it is one.
func AsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	ok := errors.As(err, &conflict)
	return conflict, ok
}
