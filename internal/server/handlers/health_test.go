package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type fixedCounter int

func (c fixedCounter) ConnectionCount() int { return int(c) }

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		db             Pinger
		connections    ConnectionCounter
		wantStatusCode int
		wantStatus     string
		wantConns      int
	}{
		{
			name:           "without dependencies",
			wantStatusCode: http.StatusOK,
			wantStatus:     "ok",
		},
		{
			name:           "healthy database and connections",
			db:             pingFunc(func(context.Context) error { return nil }),
			connections:    fixedCounter(3),
			wantStatusCode: http.StatusOK,
			wantStatus:     "ok",
			wantConns:      3,
		},
		{
			name:           "database unavailable",
			db:             pingFunc(func(context.Context) error { return errors.New("disk I/O error") }),
			connections:    fixedCounter(1),
			wantStatusCode: http.StatusServiceUnavailable,
			wantStatus:     "unavailable",
			wantConns:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), "dev", tt.db, tt.connections)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			handler.Health(w, req)

			resp := w.Result()
			defer func() {
				err := resp.Body.Close()
				assert.NoError(t, err)
			}()

			assert.Equal(t, tt.wantStatusCode, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var healthResp api.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&healthResp))

			assert.Equal(t, tt.wantStatus, healthResp.Status)
			assert.Equal(t, "dev", healthResp.Version)
			assert.Equal(t, tt.wantConns, healthResp.Connections)
		})
	}
}
