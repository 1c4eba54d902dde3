package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/sgisync/internal/client/api"
	"github.com/iudanet/sgisync/internal/client/events"
	"github.com/iudanet/sgisync/internal/client/queue"
	"github.com/iudanet/sgisync/internal/client/storage/boltdb"
	"github.com/iudanet/sgisync/pkg/api"
)

const createPayload = `{"titulo":"Inspeção","dataInicio":"2024-06-01T08:00:00Z"}`

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	service   *Service
	queue     *queue.Queue
	store     *boltdb.Storage
	bus       *events.Bus
	transport *TransportMock
	api       *MutationAPIMock
	connected *atomic.Bool
}

func setupService(t *testing.T, scopes ...string) *testEnv {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := setupTestLogger()
	connected := &atomic.Bool{}
	env := &testEnv{
		queue:     queue.New(store, logger),
		store:     store,
		bus:       events.NewBus(logger),
		connected: connected,
		transport: &TransportMock{
			SendFunc: func(ctx context.Context, msgType api.MessageType, payload any) error {
				if !connected.Load() {
					return errors.New("not connected")
				}
				return nil
			},
			IsConnectedFunc: connected.Load,
		},
		api: &MutationAPIMock{
			ApplyMutationFunc: func(ctx context.Context, change api.Change) (*api.ChangeResult, error) {
				return &api.ChangeResult{TempID: change.ClientTempID, ServerID: "srv-1", Success: true}, nil
			},
		},
	}
	env.service = NewService(logger, env.queue, store, env.transport, env.bus, env.api, Options{Scopes: scopes})
	return env
}

// sent сообщения заданного типа, отправленные через транспорт
func (e *testEnv) sent(msgType api.MessageType) []any {
	var out []any
	for _, c := range e.transport.SendCalls() {
		if c.MsgType == msgType {
			out = append(out, c.Payload)
		}
	}
	return out
}

func (e *testEnv) record(event string) *[]any {
	var got []any
	e.bus.On(event, func(data any) error {
		got = append(got, data)
		return nil
	})
	return &got
}

func envelope(t *testing.T, msgType api.MessageType, payload any) api.Envelope {
	t.Helper()
	env, err := api.NewEnvelope(msgType, payload)
	require.NoError(t, err)
	return env
}

func pendingCount(t *testing.T, e *testEnv) int {
	t.Helper()
	n, err := e.service.PendingCount(context.Background())
	require.NoError(t, err)
	return n
}

func TestService_MutateOnline(t *testing.T) {
	e := setupService(t)
	e.connected.Store(true)

	res, err := e.service.Mutate(context.Background(), api.KindAgenda, api.ActionCreate, json.RawMessage(createPayload), "")
	require.NoError(t, err)

	assert.False(t, res.Queued)
	require.NotNil(t, res.Result)
	assert.Equal(t, "srv-1", res.Result.ServerID)
	require.Len(t, e.api.ApplyMutationCalls(), 1)
	assert.Equal(t, res.TempID, e.api.ApplyMutationCalls()[0].Change.ClientTempID)
	assert.Equal(t, 0, pendingCount(t, e))
}

func TestService_MutateFallsBackToQueue(t *testing.T) {
	tests := []struct {
		name      string
		online    bool
		apiErr    error
		wantCalls int
	}{
		{name: "offline", online: false, wantCalls: 0},
		{name: "network error", online: true, apiErr: fmt.Errorf("mutation request failed: %w", httpClient.ErrUnavailable), wantCalls: 1},
		{name: "server error", online: true, apiErr: &httpClient.StatusError{StatusCode: 503}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setupService(t)
			e.service.WithOnlineCheck(func() bool { return tt.online })
			e.api.ApplyMutationFunc = func(ctx context.Context, change api.Change) (*api.ChangeResult, error) {
				return nil, tt.apiErr
			}
			queued := e.record(EventQueued)

			res, err := e.service.Mutate(context.Background(), api.KindAgenda, api.ActionCreate, json.RawMessage(createPayload), "")
			require.NoError(t, err)

			assert.True(t, res.Queued)
			assert.Nil(t, res.Result)
			assert.Len(t, e.api.ApplyMutationCalls(), tt.wantCalls)
			assert.Equal(t, 1, pendingCount(t, e))
			assert.Len(t, *queued, 1)
			// Без соединения очередь не отправляется
			assert.Empty(t, e.sent(api.MessagePushRequest))
		})
	}
}

func TestService_MutateRejectedNotQueued(t *testing.T) {
	e := setupService(t)
	e.connected.Store(true)
	e.api.ApplyMutationFunc = func(ctx context.Context, change api.Change) (*api.ChangeResult, error) {
		result := &api.ChangeResult{TempID: change.ClientTempID, Code: api.CodeConflict, Error: "version conflict"}
		return result, fmt.Errorf("mutation request failed: %w", &httpClient.StatusError{StatusCode: 409, Message: "version conflict"})
	}

	res, err := e.service.Mutate(context.Background(), api.KindAgenda, api.ActionUpdate, json.RawMessage(`{"local":"x"}`), "e1", queue.WithBaseVersion(2))
	require.Error(t, err)

	var statusErr *httpClient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 409, statusErr.StatusCode)
	require.NotNil(t, res)
	assert.Equal(t, api.CodeConflict, res.Result.Code)
	assert.False(t, res.Queued)

	change := e.api.ApplyMutationCalls()[0].Change
	require.NotNil(t, change.BaseVersion)
	assert.Equal(t, int64(2), *change.BaseVersion)
	assert.Equal(t, 0, pendingCount(t, e))
}

func TestService_MutateValidation(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		action   string
		payload  string
		targetID string
	}{
		{name: "unknown kind", kind: "invoice", action: api.ActionCreate, payload: `{}`},
		{name: "update without target", kind: api.KindAgenda, action: api.ActionUpdate, payload: `{"local":"x"}`},
		{name: "create without titulo", kind: api.KindAgenda, action: api.ActionCreate, payload: `{"dataInicio":"2024-06-01T08:00:00Z"}`},
		{name: "notification delete", kind: api.KindNotification, action: api.ActionDelete, targetID: "n1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setupService(t)
			_, err := e.service.Mutate(context.Background(), tt.kind, tt.action, json.RawMessage(tt.payload), tt.targetID)
			require.ErrorIs(t, err, api.ErrValidation)
			assert.Empty(t, e.api.ApplyMutationCalls())
			assert.Equal(t, 0, pendingCount(t, e))
		})
	}
}

// Offline create, затем соединение: очередь уходит одним push и очищается по push-result
func TestService_OfflineCreateThenReconnect(t *testing.T) {
	ctx := context.Background()
	e := setupService(t, "agenda:all")
	pushResults := e.record(EventPushResult)
	created := e.record("agenda:created")
	connectedEvents := e.record(EventConnected)

	res, err := e.service.Mutate(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(createPayload), "")
	require.NoError(t, err)
	require.True(t, res.Queued)
	assert.Empty(t, e.api.ApplyMutationCalls())

	e.connected.Store(true)
	require.NoError(t, e.service.HandleConnected(ctx))
	assert.Len(t, *connectedEvents, 1)

	subs := e.sent(api.MessageSubscribe)
	require.Len(t, subs, 1)
	assert.Equal(t, api.SubscribeRequest{Scope: "agenda:all"}, subs[0])
	// Watermark еще нет: pull не запрашивается
	assert.Empty(t, e.sent(api.MessagePullRequest))

	pushes := e.sent(api.MessagePushRequest)
	require.Len(t, pushes, 1)
	req := pushes[0].(api.PushRequest)
	require.Len(t, req.Changes, 1)
	assert.Equal(t, res.TempID, req.Changes[0].ClientTempID)
	assert.True(t, e.queue.InFlight())

	require.NoError(t, e.service.HandleMessage(ctx, envelope(t, api.MessagePushResult, api.PushResult{
		SyncTimestamp: "2024-06-01T08:00:01Z",
		Results:       []api.ChangeResult{{TempID: res.TempID, ServerID: "srv-9", Success: true}},
	})))

	assert.Equal(t, 0, pendingCount(t, e))
	assert.False(t, e.queue.InFlight())
	require.Len(t, *pushResults, 1)
	assert.Equal(t, "srv-9", (*pushResults)[0].(api.PushResult).Results[0].ServerID)

	// Рассылка сервера публикуется как есть
	require.NoError(t, e.service.HandleMessage(ctx, envelope(t, "agenda:created", map[string]string{"id": "srv-9"})))
	require.Len(t, *created, 1)
	assert.JSONEq(t, `{"id":"srv-9"}`, string((*created)[0].(json.RawMessage)))
}

func TestService_HandleConnectedWithWatermark(t *testing.T) {
	ctx := context.Background()
	e := setupService(t, "agenda:all", "project:p1")
	require.NoError(t, e.store.SaveWatermark(ctx, "2024-06-01T00:00:00Z"))
	e.connected.Store(true)

	require.NoError(t, e.service.HandleConnected(ctx))

	assert.Len(t, e.sent(api.MessageSubscribe), 2)
	pulls := e.sent(api.MessagePullRequest)
	require.Len(t, pulls, 1)
	assert.Equal(t, api.PullRequest{Since: "2024-06-01T00:00:00Z"}, pulls[0])
	// Пустая очередь не отправляется
	assert.Empty(t, e.sent(api.MessagePushRequest))
}

func TestService_PullResponse(t *testing.T) {
	ctx := context.Background()
	e := setupService(t)
	synced := e.record("agenda:synced")
	deleted := e.record("agenda:deleted")
	complete := e.record(EventPullComplete)

	require.NoError(t, e.service.HandleMessage(ctx, envelope(t, api.MessagePullResponse, api.PullResponse{
		SyncTimestamp: "2024-06-02T10:00:00.5Z",
		Entities: []api.Entity{
			{EntityKind: api.KindAgenda, ID: "e1", SyncVersion: 1, Data: json.RawMessage(`{"id":"e1"}`)},
			{EntityKind: api.KindAgenda, ID: "e2", SyncVersion: 4, Data: json.RawMessage(`{"id":"e2"}`)},
		},
		Deleted: []api.Tombstone{{EntityKind: api.KindAgenda, ID: "e0"}},
	})))

	require.Len(t, *synced, 2)
	assert.Equal(t, "e2", (*synced)[1].(api.Entity).ID)
	require.Len(t, *deleted, 1)
	assert.Equal(t, api.DeletedEvent{ID: "e0"}, (*deleted)[0])
	assert.Len(t, *complete, 1)

	watermark, err := e.service.Watermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02T10:00:00.5Z", watermark)

	// Ответ без syncTimestamp не затирает watermark
	require.NoError(t, e.service.ApplyPull(ctx, &api.PullResponse{}))
	watermark, err = e.service.Watermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02T10:00:00.5Z", watermark)
}

func TestService_PullResponse_WatermarkOnlyForward(t *testing.T) {
	tests := []struct {
		name     string
		received string
		want     string
		wantErr  bool
	}{
		{name: "older ignored", received: "2024-06-01T23:59:59Z", want: "2024-06-02T10:00:00Z"},
		{name: "equal ignored", received: "2024-06-02T10:00:00Z", want: "2024-06-02T10:00:00Z"},
		{name: "newer saved", received: "2024-06-02T10:00:00.001Z", want: "2024-06-02T10:00:00.001Z"},
		{name: "malformed rejected", received: "yesterday", want: "2024-06-02T10:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e := setupService(t)
			require.NoError(t, e.store.SaveWatermark(ctx, "2024-06-02T10:00:00Z"))

			err := e.service.ApplyPull(ctx, &api.PullResponse{SyncTimestamp: tt.received})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			watermark, err := e.service.Watermark(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, watermark)
		})
	}
}

func TestService_SyncErrorRelease(t *testing.T) {
	tests := []struct {
		name         string
		requestType  api.MessageType
		wantInFlight bool
	}{
		{name: "push failed", requestType: api.MessagePushRequest, wantInFlight: false},
		{name: "subscribe failed", requestType: api.MessageSubscribe, wantInFlight: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e := setupService(t)
			errorsSeen := e.record(EventSyncError)

			_, err := e.queue.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(createPayload), "")
			require.NoError(t, err)
			e.connected.Store(true)
			require.NoError(t, e.service.Drain(ctx))
			require.True(t, e.queue.InFlight())

			require.NoError(t, e.service.HandleMessage(ctx, envelope(t, api.MessageSyncError, api.SyncError{
				Message:     "failed",
				RequestType: tt.requestType,
			})))

			assert.Equal(t, tt.wantInFlight, e.queue.InFlight())
			assert.Equal(t, 1, pendingCount(t, e))
			assert.Len(t, *errorsSeen, 1)
		})
	}
}

func TestService_HandleDisconnectedReleasesQueue(t *testing.T) {
	ctx := context.Background()
	e := setupService(t)
	disconnected := e.record(EventDisconnected)

	_, err := e.queue.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(createPayload), "")
	require.NoError(t, err)
	e.connected.Store(true)
	require.NoError(t, e.service.Drain(ctx))
	require.True(t, e.queue.InFlight())

	e.connected.Store(false)
	e.service.HandleDisconnected(ctx)

	assert.False(t, e.queue.InFlight())
	assert.Equal(t, 1, pendingCount(t, e))
	assert.Len(t, *disconnected, 1)
}

func TestService_EnqueueWhileConnectedDrains(t *testing.T) {
	ctx := context.Background()
	e := setupService(t)
	e.connected.Store(true)
	e.service.WithOnlineCheck(func() bool { return false })

	first, err := e.service.Mutate(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(createPayload), "")
	require.NoError(t, err)
	require.Len(t, e.sent(api.MessagePushRequest), 1)

	// Вторая запись ждет ответа на первый снимок
	second, err := e.service.Mutate(ctx, api.KindAgenda, api.ActionDelete, nil, "e5")
	require.NoError(t, err)
	require.Len(t, e.sent(api.MessagePushRequest), 1)

	require.NoError(t, e.service.HandleMessage(ctx, envelope(t, api.MessagePushResult, api.PushResult{
		Results: []api.ChangeResult{{TempID: first.TempID, Success: true}},
	})))

	pushes := e.sent(api.MessagePushRequest)
	require.Len(t, pushes, 2)
	req := pushes[1].(api.PushRequest)
	require.Len(t, req.Changes, 1)
	assert.Equal(t, second.TempID, req.Changes[0].ClientTempID)
}

func TestService_DrainOfflineIsNoop(t *testing.T) {
	ctx := context.Background()
	e := setupService(t)

	_, err := e.queue.Enqueue(ctx, api.KindAgenda, api.ActionCreate, json.RawMessage(createPayload), "")
	require.NoError(t, err)

	require.NoError(t, e.service.Drain(ctx))
	assert.Empty(t, e.transport.SendCalls())
	assert.False(t, e.queue.InFlight())
}

func TestService_RequestPullAndPresence(t *testing.T) {
	ctx := context.Background()
	e := setupService(t)
	e.connected.Store(true)
	require.NoError(t, e.store.SaveWatermark(ctx, "2024-06-03T00:00:00Z"))

	require.NoError(t, e.service.RequestPull(ctx))
	require.NoError(t, e.service.UpdatePresence(ctx, "agenda", "e1"))

	assert.Equal(t, []any{api.PullRequest{Since: "2024-06-03T00:00:00Z"}}, e.sent(api.MessagePullRequest))
	assert.Equal(t, []any{api.PresenceUpdate{View: "agenda", EntityID: "e1"}}, e.sent(api.MessagePresenceUpdate))

	e.connected.Store(false)
	assert.Error(t, e.service.UpdatePresence(ctx, "agenda", ""))
}

func TestService_MalformedMessage(t *testing.T) {
	e := setupService(t)
	err := e.service.HandleMessage(context.Background(), api.Envelope{Type: api.MessagePushResult, Data: json.RawMessage(`"oops"`)})
	assert.ErrorIs(t, err, api.ErrMalformedMessage)
}
