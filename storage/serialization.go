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
	"fmt"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/depot/core"
)

// StoredRecord is the envelope persisted by durable backends: the record
// itself plus storage metadata.
type StoredRecord struct {
	Record      core.Record
	StoredAt    time.Time // UTC, microsecond precision on the wire
	Fingerprint uint64    // Record.Fingerprint() at write time
}

// StoredRecordMUS serializes StoredRecord values in MUS format. The envelope
// is small and its shape is stable, so the serializer is written directly
// against the mus-go primitives.
var StoredRecordMUS = storedRecordMUS{}

type storedRecordMUS struct{}

var _ mus.Serializer[StoredRecord] = storedRecordMUS{}

func (storedRecordMUS) Marshal(v StoredRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Record.Id, bs)
	n += ord.String.Marshal(v.Record.Title, bs[n:])
	n += varint.Int.Marshal(len(v.Record.Data), bs[n:])
	n += copy(bs[n:], v.Record.Data)
	n += varint.Int64.Marshal(v.StoredAt.UnixMicro(), bs[n:])
	n += varint.Uint64.Marshal(v.Fingerprint, bs[n:])
	return n
}

func (storedRecordMUS) Unmarshal(bs []byte) (v StoredRecord, n int, err error) {
	var n1 int
	v.Record.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Record.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var dataLen int
	dataLen, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if dataLen < 0 || dataLen > len(bs)-n {
		err = ErrTruncatedData
		return
	}
	v.Record.Data = make([]byte, dataLen)
	n += copy(v.Record.Data, bs[n:n+dataLen])
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StoredAt = time.UnixMicro(micros).UTC()
	v.Fingerprint, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	return
}

func (storedRecordMUS) Size(v StoredRecord) (size int) {
	size = ord.String.Size(v.Record.Id)
	size += ord.String.Size(v.Record.Title)
	size += varint.Int.Size(len(v.Record.Data))
	size += len(v.Record.Data)
	size += varint.Int64.Size(v.StoredAt.UnixMicro())
	size += varint.Uint64.Size(v.Fingerprint)
	return size
}

func (storedRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var dataLen int
	dataLen, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if dataLen < 0 || dataLen > len(bs)-n {
		return n, ErrTruncatedData
	}
	n += dataLen
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	return
}

// MarshalStoredRecord serializes a stored-record envelope to bytes.
func MarshalStoredRecord(v *StoredRecord) []byte {
	buf := make([]byte, StoredRecordMUS.Size(*v))
	StoredRecordMUS.Marshal(*v, buf)
	return buf
}

// UnmarshalStoredRecord deserializes a stored-record envelope from bytes.
func UnmarshalStoredRecord(data []byte) (*StoredRecord, error) {
	v, _, err := StoredRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &v, nil
}
