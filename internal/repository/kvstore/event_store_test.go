package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbook/internal/domain"
)

// fakeKV is an in-memory KV for tests. Writes and deletes are counted so
// tests can assert whether a persisted write occurred.
type fakeKV struct {
	data    map[string]string
	puts    int
	deletes int
	getErr  error
	putErr  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Put(ctx context.Context, key, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	f.deletes++
	delete(f.data, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedEvents(t *testing.T, kv *fakeKV) []*domain.Event {
	t.Helper()
	raw, ok := kv.data[EventsKey]
	require.True(t, ok, "no events record persisted")
	var events []*domain.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &events))
	return events
}

func testEvent(id, title string) *domain.Event {
	return &domain.Event{
		ID:          id,
		Title:       title,
		Description: "a test event",
		EventType:   domain.EventTypeOnline,
		EventLink:   "https://meet.example.com/" + id,
		Start:       time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC),
		Category:    domain.CategoryTech,
		Organizer:   domain.Organizer{UserName: "dana", Email: "dana@example.com"},
	}
}

func TestEventStore_CreatePersistsSynchronously(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())

	require.NoError(t, store.Create(ctx, testEvent("ev-1", "first")))
	require.NoError(t, store.Create(ctx, testEvent("ev-2", "second")))

	assert.Equal(t, 2, kv.puts)
	persisted := storedEvents(t, kv)
	require.Len(t, persisted, 2)
	assert.Equal(t, "ev-1", persisted[0].ID)
	assert.Equal(t, "ev-2", persisted[1].ID)
}

func TestEventStore_LoadsExistingCollection(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	raw, err := json.Marshal([]*domain.Event{testEvent("ev-1", "persisted")})
	require.NoError(t, err)
	kv.data[EventsKey] = string(raw)

	store := NewEventStore(ctx, kv, discardLogger())
	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "persisted", events[0].Title)
}

func TestEventStore_CorruptRecordLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.data[EventsKey] = `{"not": "an array"`

	store := NewEventStore(ctx, kv, discardLogger())
	events, err := store.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventStore_Update(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "before")))

	updated := testEvent("ev-1", "after")
	require.NoError(t, store.Update(ctx, updated))

	got, err := store.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "after", storedEvents(t, kv)[0].Title)
}

func TestEventStore_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())

	err := store.Update(ctx, testEvent("ev-missing", "x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, kv.puts)
}

func TestEventStore_DeleteMissingLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "keep")))
	putsBefore := kv.puts

	err := store.Delete(ctx, "ev-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	// No persisted write occurred and the collection is unchanged.
	assert.Equal(t, putsBefore, kv.puts)
	events, err := store.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventStore_Delete(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "a")))
	require.NoError(t, store.Create(ctx, testEvent("ev-2", "b")))

	require.NoError(t, store.Delete(ctx, "ev-1"))
	persisted := storedEvents(t, kv)
	require.Len(t, persisted, 1)
	assert.Equal(t, "ev-2", persisted[0].ID)
}

func TestEventStore_GetByIDMissing(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore(ctx, newFakeKV(), discardLogger())
	_, err := store.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventStore_BulkImportAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "existing")))

	batch := []*domain.Event{testEvent("ev-2", "b"), testEvent("ev-3", "c")}
	require.NoError(t, store.BulkImport(ctx, batch))

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, "ev-2", events[1].ID)
	assert.Equal(t, "ev-3", events[2].ID)
	// One persisted write for the whole batch.
	assert.Equal(t, 2, kv.puts)
}

func TestEventStore_ClearRemovesRecord(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "a")))

	require.NoError(t, store.Clear(ctx))
	_, ok := kv.data[EventsKey]
	assert.False(t, ok)
	events, err := store.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventStore_ReloadPicksUpExternalWrite(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEventStore(ctx, kv, discardLogger())
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "mine")))

	// Another process rewrites the record; last writer wins on reload.
	raw, err := json.Marshal([]*domain.Event{testEvent("ev-2", "theirs")})
	require.NoError(t, err)
	kv.data[EventsKey] = string(raw)

	require.NoError(t, store.Reload(ctx))
	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-2", events[0].ID)
}

func TestEventStore_PersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.putErr = errors.New("disk full")
	store := NewEventStore(ctx, kv, discardLogger())

	// The write degrades to memory-only instead of failing the operation.
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "kept in memory")))
	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
}

func TestEventStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore(ctx, newFakeKV(), discardLogger())
	require.NoError(t, store.Create(ctx, testEvent("ev-1", "original")))

	events, err := store.Events(ctx)
	require.NoError(t, err)
	events[0].Title = "mutated"

	got, err := store.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
}
