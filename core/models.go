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


package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// Title length bounds, in runes, enforced at construction.
const (
	MinTitleLen = 2
	MaxTitleLen = 20
)

// Record is the unit of data submitted for storage.
//
// A Record can only be observed in a well-formed state: NewRecord is the
// single enforcement point for its invariants, and stores clone records at
// the boundary, so no mutation by the caller is visible after submission.
type Record struct {
	Id    string // caller-assigned opaque identifier, unique per store
	Title string // unique per store, MinTitleLen to MaxTitleLen runes
	Data  []byte // opaque payload
}

// NewRecord builds a valid Record or reports why it cannot.
//
// Code downstream of this constructor never re-validates record shape;
// construction failures are caller mistakes, not business errors.
func NewRecord(id, title string, data []byte) (*Record, error) {
	r := &Record{Id: id, Title: title, Data: data}
	if err := ValidateRecord(r); err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	data := make([]byte, len(r.Data))
	copy(data, r.Data)
	return &Record{Id: r.Id, Title: r.Title, Data: data}
}

// Fingerprint generates a deterministic fingerprint of the record payload
// using BLAKE2b hashing. Identical payloads produce identical fingerprints.
// Durable backends persist it alongside the record and re-check it on read.
func (r *Record) Fingerprint() uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(r.Data)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
