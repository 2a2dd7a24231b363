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


// Package storage provides the storage abstraction layer for depot.
//
// It defines the RecordStore contract that backends implement
// (storage/memory for the in-memory reference store, storage/badger for the
// durable BadgerDB store) together with the error taxonomy every backend
// shares.
//
// # Error taxonomy
//
// Stores report two classes of failure, and the distinction is the contract
// callers depend on:
//
//   - Business conflicts: *ConflictError with a fixed set of kinds
//     (ConflictDuplicateID, ConflictDuplicateTitle), each carrying the
//     rejected record. These are normal control flow and are handled
//     exhaustively with a switch over ConflictError.Kind. Use IsConflict or
//     AsConflict to recognize them.
//
//   - Infrastructure failures: every other error, such as injected faults,
//     context deadlines, backend I/O, or serialization problems. They are
//     deliberately left unstructured at this layer; callers retry, alert,
//     or abort, and
//     never pattern-match them as business cases.
//
// A business conflict is never wrapped into an infrastructure error and an
// infrastructure failure is never representable as a ConflictError.
//
// # Thread safety
//
// All RecordStore implementations must be safe for concurrent use and must
// keep the duplicate check and the insert inside one critical section, so a
// race on one ID or title produces exactly one success.
package storage
