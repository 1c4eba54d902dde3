package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/internal/client/auth"
	"github.com/iudanet/sgisync/internal/client/iocli"
	"github.com/iudanet/sgisync/internal/config"
	"github.com/iudanet/sgisync/internal/server"
	serverAuth "github.com/iudanet/sgisync/internal/server/auth"
)

const testSecret = "cli-test-secret-0123456789"

const agendaPayload = `{"titulo":"Inspeção","dataInicio":"2024-06-01T08:00:00Z"}`

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// startServer поднимает настоящий сервер синхронизации и выдает токен
func startServer(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()

	cfg := config.DefaultServer()
	cfg.DBPath = filepath.Join(t.TempDir(), "server.db")
	cfg.JWTSecret = testSecret

	s, err := server.New(ctx, cfg, setupTestLogger(), "test")
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Close()
	})

	token, _, err := serverAuth.NewJWT(serverAuth.JWTConfig{Secret: []byte(testSecret), TokenTTL: time.Hour}).
		IssueToken("alice", "admin")
	require.NoError(t, err)
	return ts.URL, token
}

func clientConfig(t *testing.T, serverURL, token string) config.Client {
	t.Helper()
	cfg := config.DefaultClient()
	cfg.ServerURL = serverURL
	cfg.Token = token
	cfg.DBPath = filepath.Join(t.TempDir(), "client.db")
	return cfg
}

func newTestCli(t *testing.T, cfg config.Client) (*Cli, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c, err := New(context.Background(), cfg, setupTestLogger(), iocli.New(strings.NewReader(""), &out))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, &out
}

func TestCli_EnqueueOffline(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCli(t, clientConfig(t, "http://127.0.0.1:1", ""))

	tests := []struct {
		name    string
		params  EnqueueParams
		wantErr string
	}{
		{
			name:   "create agenda",
			params: EnqueueParams{Kind: "agenda", Action: "create", Payload: agendaPayload},
		},
		{
			name:    "not json",
			params:  EnqueueParams{Kind: "agenda", Action: "create", Payload: "{titulo"},
			wantErr: "not valid JSON",
		},
		{
			name:    "unknown kind",
			params:  EnqueueParams{Kind: "invoice", Action: "create", Payload: `{}`},
			wantErr: "mutation rejected",
		},
		{
			name:    "update without target",
			params:  EnqueueParams{Kind: "agenda", Action: "update", Payload: `{"titulo":"x"}`},
			wantErr: "mutation rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Enqueue(ctx, tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	count, err := c.queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Contains(t, out.String(), "Queued create agenda as temp_")
}

func TestCli_Status(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCli(t, clientConfig(t, "http://example.test", ""))

	require.NoError(t, c.Status(ctx))
	assert.Contains(t, out.String(), "not set")
	assert.Contains(t, out.String(), "(never synced)")
	assert.Contains(t, out.String(), "Queue is empty")

	out.Reset()
	require.NoError(t, c.Login(ctx, "stored-token"))
	require.NoError(t, c.Enqueue(ctx, EnqueueParams{Kind: "agenda", Action: "create", Payload: agendaPayload}))
	require.NoError(t, c.storage.SaveWatermark(ctx, "2024-06-01T08:00:00Z"))

	out.Reset()
	require.NoError(t, c.Status(ctx))
	assert.Contains(t, out.String(), "Token:     stored")
	assert.Contains(t, out.String(), "Watermark: 2024-06-01T08:00:00Z")
	assert.Contains(t, out.String(), "Pending:   1 mutation(s)")
}

func TestCli_LoginLogout(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCli(t, clientConfig(t, "http://example.test", ""))

	// ввод не терминал и токен не задан
	require.ErrorIs(t, c.Login(ctx, ""), auth.ErrNoToken)

	require.NoError(t, c.Login(ctx, "abc"))
	assert.Contains(t, out.String(), "Token saved")
	stored, err := c.tokens.IsStored(ctx)
	require.NoError(t, err)
	assert.True(t, stored)

	require.NoError(t, c.Logout(ctx))
	assert.Contains(t, out.String(), "Token removed")
	stored, err = c.tokens.IsStored(ctx)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestCli_PushPull(t *testing.T) {
	ctx := context.Background()
	serverURL, token := startServer(t)
	c, out := newTestCli(t, clientConfig(t, serverURL, token))

	require.NoError(t, c.Push(ctx))
	assert.Contains(t, out.String(), "Nothing to push")

	require.NoError(t, c.Enqueue(ctx, EnqueueParams{Kind: "agenda", Action: "create", Payload: agendaPayload}))
	require.NoError(t, c.Enqueue(ctx, EnqueueParams{
		Kind:     "agenda",
		Action:   "delete",
		TargetID: "00000000-0000-0000-0000-000000000000",
	}))

	out.Reset()
	require.NoError(t, c.Push(ctx))
	assert.Contains(t, out.String(), "Pushed 1 mutation(s), 1 rejected")

	// отклоненные записи тоже снимаются с очереди
	count, err := c.queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	out.Reset()
	require.NoError(t, c.Pull(ctx, false))
	assert.Contains(t, out.String(), "Pulled 1 change(s), 0 deletion(s)")

	watermark, err := c.storage.GetWatermark(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, watermark)

	out.Reset()
	require.NoError(t, c.Pull(ctx, false))
	assert.Contains(t, out.String(), "Pulled 0 change(s)")

	out.Reset()
	require.NoError(t, c.Pull(ctx, true))
	assert.Contains(t, out.String(), "Pulled 1 change(s)")
}

func TestCli_PushRequiresToken(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCli(t, clientConfig(t, "http://example.test", ""))

	require.NoError(t, c.Enqueue(ctx, EnqueueParams{Kind: "agenda", Action: "create", Payload: agendaPayload}))
	require.ErrorIs(t, c.Push(ctx), auth.ErrNoToken)
	require.ErrorIs(t, c.Pull(ctx, false), auth.ErrNoToken)

	count, err := c.queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCli_EnqueueDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("server reachable", func(t *testing.T) {
		serverURL, token := startServer(t)
		c, out := newTestCli(t, clientConfig(t, serverURL, token))

		require.NoError(t, c.Enqueue(ctx, EnqueueParams{Kind: "agenda", Action: "create", Payload: agendaPayload, Direct: true}))
		assert.Contains(t, out.String(), "Applied create agenda")

		count, err := c.queue.PendingCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("server down falls back to queue", func(t *testing.T) {
		c, out := newTestCli(t, clientConfig(t, "http://127.0.0.1:1", "token"))

		require.NoError(t, c.Enqueue(ctx, EnqueueParams{Kind: "agenda", Action: "create", Payload: agendaPayload, Direct: true}))
		assert.Contains(t, out.String(), "Queued create agenda")

		count, err := c.queue.PendingCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestCli_RunDaemon(t *testing.T) {
	serverURL, token := startServer(t)
	cfg := clientConfig(t, serverURL, token)
	cfg.SpoolDir = filepath.Join(t.TempDir(), "spool")
	c, _ := newTestCli(t, cfg)

	// мутация, созданная без связи
	require.NoError(t, c.Enqueue(context.Background(), EnqueueParams{Kind: "agenda", Action: "create", Payload: agendaPayload}))

	ctx, cancel := context.WithCancel(context.Background())
	var runErr error
	stopped := make(chan struct{})
	go func() {
		runErr = c.RunDaemon(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	require.Eventually(t, func() bool {
		count, err := c.queue.PendingCount(context.Background())
		return err == nil && count == 0
	}, 5*time.Second, 20*time.Millisecond)

	// мутация из spool
	require.Eventually(t, func() bool {
		_, err := os.Stat(cfg.SpoolDir)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	tmp := filepath.Join(cfg.SpoolDir, ".m1.json.tmp")
	final := filepath.Join(cfg.SpoolDir, "m1.json")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"entityKind":"agenda","action":"create","payload":`+agendaPayload+`}`), 0o600))
	require.NoError(t, os.Rename(tmp, final))

	require.Eventually(t, func() bool {
		_, err := os.Stat(final)
		return os.IsNotExist(err)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-stopped:
		assert.NoError(t, runErr)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestCli_RunDaemonRejectedToken(t *testing.T) {
	serverURL, _ := startServer(t)
	c, _ := newTestCli(t, clientConfig(t, serverURL, "forged"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.RunDaemon(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}
