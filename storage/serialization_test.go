package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/depot/core"
)

func TestMarshalUnmarshalStoredRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name     string
		envelope StoredRecord
	}{
		{
			name: "basic record",
			envelope: StoredRecord{
				Record:      core.Record{Id: "id-123", Title: "A title", Data: []byte("payload")},
				StoredAt:    now,
				Fingerprint: 12345,
			},
		},
		{
			name: "empty payload",
			envelope: StoredRecord{
				Record:      core.Record{Id: "id-123", Title: "A title", Data: []byte{}},
				StoredAt:    now,
				Fingerprint: 0,
			},
		},
		{
			name: "multi-byte title",
			envelope: StoredRecord{
				Record:      core.Record{Id: "id-ü", Title: "tütel tütel", Data: []byte{0x00, 0xff, 0x10}},
				StoredAt:    now,
				Fingerprint: 18446744073709551615, // max uint64
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalStoredRecord(&tt.envelope)
			require.NotEmpty(t, data)
			require.Len(t, data, StoredRecordMUS.Size(tt.envelope))

			decoded, err := UnmarshalStoredRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.envelope.Record, decoded.Record)
			assert.True(t, tt.envelope.StoredAt.Equal(decoded.StoredAt))
			assert.Equal(t, tt.envelope.Fingerprint, decoded.Fingerprint)
		})
	}
}

func TestUnmarshalStoredRecord_Invalid(t *testing.T) {
	envelope := StoredRecord{
		Record:      core.Record{Id: "id-123", Title: "A title", Data: []byte("payload")},
		StoredAt:    time.Now().UTC(),
		Fingerprint: 1,
	}
	data := MarshalStoredRecord(&envelope)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", data[:len(data)/2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalStoredRecord(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestStoredRecordMUS_Skip(t *testing.T) {
	envelope := StoredRecord{
		Record:      core.Record{Id: "id-123", Title: "A title", Data: []byte("payload")},
		StoredAt:    time.Now().UTC().Truncate(time.Microsecond),
		Fingerprint: 99,
	}
	data := MarshalStoredRecord(&envelope)

	n, err := StoredRecordMUS.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}
