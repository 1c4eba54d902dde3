package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		status     int
		wantLogged bool
		wantLevel  string
	}{
		{name: "success", path: "/api/v1/sync", status: http.StatusOK, wantLogged: true, wantLevel: "INFO"},
		{name: "client error", path: "/api/v1/sync", status: http.StatusBadRequest, wantLogged: true, wantLevel: "WARN"},
		{name: "server error", path: "/api/v1/mutations", status: http.StatusInternalServerError, wantLogged: true, wantLevel: "ERROR"},
		{name: "skipped health", path: "/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})

			req := httptest.NewRequest(http.MethodGet, tt.path+"?token=secret", nil)
			w := httptest.NewRecorder()

			LoggingMiddleware(logger, "/health", "/metrics")(next).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			out := buf.String()
			if !tt.wantLogged {
				assert.Empty(t, out)
				return
			}
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, "path="+tt.path)
			assert.Contains(t, out, "bytes_written=4")
			assert.NotContains(t, out, "secret")
		})
	}
}

func TestStatusRecorder_Unwrap(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

	assert.Same(t, w, rec.Unwrap())

	_, _, err := rec.Hijack()
	assert.Error(t, err, "httptest recorder cannot be hijacked")
}
