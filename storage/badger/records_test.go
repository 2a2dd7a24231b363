package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/depot/core"
	"github.com/poiesic/depot/storage"
)

func mustRecord(t *testing.T, id, title, data string) *core.Record {
	t.Helper()
	rec, err := core.NewRecord(id, title, []byte(data))
	require.NoError(t, err)
	return rec
}

func TestRecordStore_PutAndGet(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	rec := mustRecord(t, "id-123", "A title", "payload")

	before := time.Now().UTC()
	storedAt, err := store.Put(ctx, rec)
	require.NoError(t, err)
	assert.False(t, storedAt.Before(before))

	got, err := store.Get(ctx, "id-123")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	got, err = store.GetByTitle(ctx, "A title")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordStore_Get_NotFound(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByTitle(ctx, "missing title")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordStore_Duplicates(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, err = store.Put(ctx, mustRecord(t, "id-123", "A title", "payload"))
	require.NoError(t, err)

	_, err = store.Put(ctx, mustRecord(t, "id-123", "Different", "payload2"))
	conflict, ok := storage.AsConflict(err)
	require.True(t, ok, "Put() error = %v, want conflict", err)
	assert.Equal(t, storage.ConflictDuplicateID, conflict.Kind)

	_, err = store.Put(ctx, mustRecord(t, "id-999", "A title", "payload3"))
	conflict, ok = storage.AsConflict(err)
	require.True(t, ok, "Put() error = %v, want conflict", err)
	assert.Equal(t, storage.ConflictDuplicateTitle, conflict.Kind)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordStore_Conflict_IsReadOnly(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	rec := mustRecord(t, "id-123", "A title", "payload")
	require.NoError(t, store.Conflict(ctx, rec))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = store.Put(ctx, rec)
	require.NoError(t, err)

	conflict, ok := storage.AsConflict(store.Conflict(ctx, mustRecord(t, "id-123", "Other title", "x")))
	require.True(t, ok)
	assert.Equal(t, storage.ConflictDuplicateID, conflict.Kind)
}

func TestRecordStore_FaultLeavesStoreUnchanged(t *testing.T) {
	injected := storage.FaultFunc(func(rec *core.Record) error {
		return storage.ErrStoreUnavailable
	})
	store, err := NewMemoryStore(WithFaultInjector(injected))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, err = store.Put(ctx, mustRecord(t, "id-123", "A title", "payload"))
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
	assert.False(t, storage.IsConflict(err))

	_, err = store.Get(ctx, "id-123")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByTitle(ctx, "A title")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecordStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	store := NewRecordStore(backend)
	ctx := context.Background()

	rec := mustRecord(t, "id-123", "A title", "payload")
	_, err = store.Put(ctx, rec)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	store = NewRecordStore(backend)
	defer store.Close()

	got, err := store.Get(ctx, "id-123")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = store.Put(ctx, mustRecord(t, "id-123", "Different", "x"))
	assert.True(t, storage.IsConflict(err), "duplicate check must survive reopen, got %v", err)
}

func TestRecordStore_Closed(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	ctx := context.Background()

	rec := mustRecord(t, "id-123", "A title", "payload")
	_, err = store.Put(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrStoreClosed)
	assert.ErrorIs(t, store.Conflict(ctx, rec), storage.ErrStoreClosed)
	_, err = store.Get(ctx, "id-123")
	assert.ErrorIs(t, err, storage.ErrStoreClosed)
}

func TestRecordStore_ConcurrentPutsSameID(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := mustRecordConcurrent(i)
			_, errs[i] = store.Put(ctx, rec)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		conflict, isConflict := storage.AsConflict(err)
		require.True(t, isConflict, "unexpected error: %v", err)
		assert.Equal(t, storage.ConflictDuplicateID, conflict.Kind)
	}
	assert.Equal(t, 1, ok, "exactly one writer must win")

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func mustRecordConcurrent(i int) *core.Record {
	return &core.Record{Id: "id-123", Title: fmt.Sprintf("title-%02d", i), Data: []byte("payload")}
}
