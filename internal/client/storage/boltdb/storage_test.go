package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/sgisync/internal/client/storage"
	"github.com/iudanet/sgisync/internal/models"
)

// создаём тестовое BoltDB хранилище во временной директории
func createTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "client_test.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	return store, dbPath
}

func record(tempID, action string) models.MutationRecord {
	return models.MutationRecord{
		EnqueuedAt:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		EntityKind:   "agenda",
		Action:       action,
		ClientTempID: tempID,
		Payload:      json.RawMessage(`{"titulo":"` + tempID + `"}`),
	}
}

func TestNew_CreatesBuckets(t *testing.T) {
	store, dbPath := createTestStorage(t)
	defer func() {
		require.NoError(t, store.Close())
	}()

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSync, bucketAuth} {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "db"))
	assert.Error(t, err)
}

func TestStorage_Queue(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStorage(t)
	defer func() { _ = store.Close() }()

	pending, err := store.LoadPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	for _, id := range []string{"temp_1", "temp_2", "temp_3"} {
		require.NoError(t, store.AppendPending(ctx, record(id, "create")))
	}

	pending, err = store.LoadPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "temp_1", pending[0].ClientTempID)
	assert.Equal(t, "temp_3", pending[2].ClientTempID)
	assert.JSONEq(t, `{"titulo":"temp_2"}`, string(pending[1].Payload))

	removed, err := store.RemovePending(ctx, []string{"temp_1", "temp_3", "temp_unknown"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	pending, err = store.LoadPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "temp_2", pending[0].ClientTempID)

	removed, err = store.RemovePending(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// Очередь переживает перезапуск процесса
func TestStorage_QueueSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store, dbPath := createTestStorage(t)

	base := int64(4)
	rec := record("temp_upd", "update")
	rec.TargetID = "evt-1"
	rec.BaseVersion = &base
	require.NoError(t, store.AppendPending(ctx, rec))
	require.NoError(t, store.SaveWatermark(ctx, "2024-05-01T09:00:00.123456789Z"))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	pending, err := reopened.LoadPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rec.ClientTempID, pending[0].ClientTempID)
	assert.Equal(t, "evt-1", pending[0].TargetID)
	require.NotNil(t, pending[0].BaseVersion)
	assert.Equal(t, base, *pending[0].BaseVersion)
	assert.True(t, rec.EnqueuedAt.Equal(pending[0].EnqueuedAt))

	watermark, err := reopened.GetWatermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T09:00:00.123456789Z", watermark)
}

func TestStorage_Watermark(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStorage(t)
	defer func() { _ = store.Close() }()

	watermark, err := store.GetWatermark(ctx)
	require.NoError(t, err)
	assert.Empty(t, watermark)

	require.NoError(t, store.SaveWatermark(ctx, "2024-05-01T00:00:00Z"))
	require.NoError(t, store.SaveWatermark(ctx, "2024-05-02T00:00:00Z"))

	watermark, err = store.GetWatermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02T00:00:00Z", watermark)
}

func TestStorage_Token(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStorage(t)
	defer func() { _ = store.Close() }()

	_, err := store.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	require.NoError(t, store.SaveToken(ctx, "jwt-token"))

	token, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	require.NoError(t, store.DeleteToken(ctx))
	assert.ErrorIs(t, store.DeleteToken(ctx), storage.ErrAuthNotFound)

	_, err = store.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}
