package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/pkg/api"
)

const testToken = "test-token"

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testOptions(url string) Options {
	return Options{
		ServerURL:  url,
		Token:      testToken,
		MinBackoff: 10 * time.Millisecond,
		MaxBackoff: 50 * time.Millisecond,
	}
}

// acceptAuthorized принимает соединение только с правильным bearer токеном
func acceptAuthorized(t *testing.T, w http.ResponseWriter, r *http.Request) *websocket.Conn {
	t.Helper()
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return nil
	}
	return conn
}

func readEnvelope(ctx context.Context, conn *websocket.Conn) (api.Envelope, error) {
	var env api.Envelope
	_, data, err := conn.Read(ctx)
	if err != nil {
		return env, err
	}
	err = json.Unmarshal(data, &env)
	return env, err
}

func writeEnvelope(ctx context.Context, conn *websocket.Conn, msgType api.MessageType, payload any) error {
	env, err := api.NewEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func runClient(t *testing.T, c *Client, h Handler) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, h) }()

	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return")
			return nil
		}
	}
}

func TestClient_ConnectSendReceive(t *testing.T) {
	received := make(chan api.Envelope, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws", r.URL.Path)
		conn := acceptAuthorized(t, w, r)
		if conn == nil {
			return
		}
		defer conn.CloseNow()

		env, err := readEnvelope(r.Context(), conn)
		if err != nil {
			return
		}
		received <- env

		if err := writeEnvelope(r.Context(), conn, api.EventName(api.KindAgenda, api.EventCreated), map[string]string{"id": "e1"}); err != nil {
			return
		}
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)

	c := New(setupTestLogger(), testOptions(ts.URL))
	messages := make(chan api.Envelope, 1)
	h := &HandlerMock{
		HandleConnectedFunc: func(ctx context.Context) error {
			return c.Send(ctx, api.MessageSubscribe, api.SubscribeRequest{Scope: "agenda:all"})
		},
		HandleDisconnectedFunc: func(ctx context.Context) {},
		HandleMessageFunc: func(ctx context.Context, env api.Envelope) error {
			messages <- env
			return nil
		},
	}
	stop := runClient(t, c, h)

	select {
	case env := <-received:
		assert.Equal(t, api.MessageSubscribe, env.Type)
		var req api.SubscribeRequest
		require.NoError(t, env.Decode(&req))
		assert.Equal(t, "agenda:all", req.Scope)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive subscribe")
	}

	select {
	case env := <-messages:
		assert.Equal(t, api.MessageType("agenda:created"), env.Type)
		assert.JSONEq(t, `{"id":"e1"}`, string(env.Data))
	case <-time.After(5 * time.Second):
		t.Fatal("client did not receive broadcast")
	}
	assert.True(t, c.IsConnected())

	require.NoError(t, stop())
	assert.False(t, c.IsConnected())
	assert.Len(t, h.HandleConnectedCalls(), 1)
	assert.Len(t, h.HandleDisconnectedCalls(), 1)
}

func TestClient_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	t.Cleanup(ts.Close)

	c := New(setupTestLogger(), testOptions(ts.URL))
	h := &HandlerMock{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.Run(ctx, h)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, h.HandleConnectedCalls())
	assert.False(t, c.IsConnected())
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	var connections atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn := acceptAuthorized(t, w, r)
		if conn == nil {
			return
		}
		// Первое соединение сразу обрывается
		if connections.Add(1) == 1 {
			_ = conn.Close(websocket.StatusGoingAway, "restart")
			return
		}
		defer conn.CloseNow()
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)

	c := New(setupTestLogger(), testOptions(ts.URL))
	h := &HandlerMock{
		HandleConnectedFunc:    func(ctx context.Context) error { return nil },
		HandleDisconnectedFunc: func(ctx context.Context) {},
		HandleMessageFunc:      func(ctx context.Context, env api.Envelope) error { return nil },
	}
	stop := runClient(t, c, h)

	require.Eventually(t, func() bool {
		return len(h.HandleConnectedCalls()) == 2 && c.IsConnected()
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, len(h.HandleDisconnectedCalls()), 1)

	require.NoError(t, stop())
}

func TestClient_ReconnectSkipsBackoff(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	opts := testOptions(ts.URL)
	opts.MinBackoff = time.Hour
	opts.MaxBackoff = time.Hour
	c := New(setupTestLogger(), opts)
	stop := runClient(t, c, &HandlerMock{})

	require.Eventually(t, func() bool { return attempts.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	c.Reconnect()
	require.Eventually(t, func() bool { return attempts.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, stop())
}

func TestClient_SendNotConnected(t *testing.T) {
	c := New(setupTestLogger(), testOptions("http://127.0.0.1:1"))
	err := c.Send(context.Background(), api.MessagePullRequest, api.PullRequest{})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, c.IsConnected())
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "http://localhost:8080", want: "http://localhost:8080/ws"},
		{in: "https://sync.example.com/", want: "https://sync.example.com/ws"},
		{in: "wss://sync.example.com/base", want: "wss://sync.example.com/base/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, WebsocketURL(tt.in))
		})
	}
}
