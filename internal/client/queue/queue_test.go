package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/internal/client/storage"
	"github.com/iudanet/sgisync/internal/client/storage/boltdb"
	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openStore(t *testing.T, path string) *boltdb.Storage {
	t.Helper()
	store, err := boltdb.New(context.Background(), path)
	require.NoError(t, err)
	return store
}

func setupQueue(t *testing.T) *Queue {
	t.Helper()
	store := openStore(t, filepath.Join(t.TempDir(), "queue.db"))
	t.Cleanup(func() { _ = store.Close() })
	return New(store, setupTestLogger())
}

func TestQueue_EnqueuePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	store := openStore(t, path)
	q := New(store, setupTestLogger())

	id1, err := q.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(`{"titulo":"A"}`), "")
	require.NoError(t, err)
	id2, err := q.Enqueue(ctx, api.KindAgenda, api.ActionUpdate, json.RawMessage(`{"local":"B"}`), "e1", WithBaseVersion(3))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Regexp(t, `^temp_\d+_[0-9a-f]{8}$`, id1)

	require.NoError(t, store.Close())

	// Новый процесс видит ту же очередь в том же порядке
	store = openStore(t, path)
	t.Cleanup(func() { _ = store.Close() })
	q = New(store, setupTestLogger())

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, id1, pending[0].ClientTempID)
	assert.Equal(t, id2, pending[1].ClientTempID)
	assert.Equal(t, "e1", pending[1].TargetID)
	require.NotNil(t, pending[1].BaseVersion)
	assert.Equal(t, int64(3), *pending[1].BaseVersion)
	assert.JSONEq(t, `{"titulo":"A"}`, string(pending[0].Payload))
}

func TestQueue_DrainAndAcknowledge(t *testing.T) {
	ctx := context.Background()
	q := setupQueue(t)

	first, err := q.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(`{"titulo":"A"}`), "")
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, api.KindAgenda, api.ActionDelete, nil, "e9")
	require.NoError(t, err)

	pusher := &PusherMock{PushFunc: func(ctx context.Context, changes []api.Change) error { return nil }}
	require.NoError(t, q.Drain(ctx, pusher))
	require.Len(t, pusher.PushCalls(), 1)

	sent := pusher.PushCalls()[0].Changes
	require.Len(t, sent, 2)
	assert.Equal(t, first, sent[0].ClientTempID)
	assert.Equal(t, second, sent[1].ClientTempID)
	assert.True(t, q.InFlight())

	// Повторный drain во время отправки ничего не делает
	require.NoError(t, q.Drain(ctx, pusher))
	assert.Len(t, pusher.PushCalls(), 1)

	// Запись, добавленная после снимка, переживает подтверждение
	third, err := q.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(`{"titulo":"C"}`), "")
	require.NoError(t, err)

	removed, err := q.Acknowledge(ctx, []api.ChangeResult{
		{TempID: first, Success: true, ServerID: "srv-1"},
		{TempID: second, Success: false, Code: api.CodeNotFound, Error: "not found"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.False(t, q.InFlight())

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, third, pending[0].ClientTempID)

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQueue_DrainEmpty(t *testing.T) {
	q := setupQueue(t)
	pusher := &PusherMock{PushFunc: func(ctx context.Context, changes []api.Change) error { return nil }}

	require.NoError(t, q.Drain(context.Background(), pusher))
	assert.Empty(t, pusher.PushCalls())
	assert.False(t, q.InFlight())
}

func TestQueue_DrainPushFailure(t *testing.T) {
	ctx := context.Background()
	q := setupQueue(t)

	_, err := q.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(`{"titulo":"A"}`), "")
	require.NoError(t, err)

	errOffline := errors.New("not connected")
	pusher := &PusherMock{PushFunc: func(ctx context.Context, changes []api.Change) error { return errOffline }}

	err = q.Drain(ctx, pusher)
	require.ErrorIs(t, err, errOffline)
	assert.False(t, q.InFlight())

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// После ошибки очередь снова можно отправить
	pusher.PushFunc = func(ctx context.Context, changes []api.Change) error { return nil }
	require.NoError(t, q.Drain(ctx, pusher))
	assert.Len(t, pusher.PushCalls(), 2)
}

func TestQueue_Release(t *testing.T) {
	ctx := context.Background()
	q := setupQueue(t)

	_, err := q.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(`{"titulo":"A"}`), "")
	require.NoError(t, err)

	pusher := &PusherMock{PushFunc: func(ctx context.Context, changes []api.Change) error { return nil }}
	require.NoError(t, q.Drain(ctx, pusher))
	require.True(t, q.InFlight())

	// Разрыв соединения до push-result: снимок отправится заново
	q.Release()
	require.NoError(t, q.Drain(ctx, pusher))
	assert.Len(t, pusher.PushCalls(), 2)

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQueue_ConcurrentDrainPushesOnce(t *testing.T) {
	ctx := context.Background()
	q := setupQueue(t)

	_, err := q.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(`{"titulo":"A"}`), "")
	require.NoError(t, err)

	pusher := &PusherMock{PushFunc: func(ctx context.Context, changes []api.Change) error { return nil }}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, q.Drain(ctx, pusher))
		}()
	}
	wg.Wait()

	assert.Len(t, pusher.PushCalls(), 1)
}

func TestQueue_StorageErrors(t *testing.T) {
	ctx := context.Background()
	errDisk := errors.New("disk failure")

	store := &storage.QueueStorageMock{
		AppendPendingFunc: func(ctx context.Context, record models.MutationRecord) error { return errDisk },
		LoadPendingFunc:   func(ctx context.Context) ([]models.MutationRecord, error) { return nil, errDisk },
		RemovePendingFunc: func(ctx context.Context, tempIDs []string) (int, error) { return 0, errDisk },
	}
	q := New(store, setupTestLogger())

	_, err := q.Enqueue(ctx, api.KindAgenda, api.ActionCreate, nil, "")
	assert.ErrorIs(t, err, errDisk)

	err = q.Drain(ctx, &PusherMock{})
	assert.ErrorIs(t, err, errDisk)
	assert.False(t, q.InFlight())

	_, err = q.Acknowledge(ctx, []api.ChangeResult{{TempID: "temp_1"}})
	assert.ErrorIs(t, err, errDisk)

	_, err = q.PendingCount(ctx)
	assert.ErrorIs(t, err, errDisk)
}
