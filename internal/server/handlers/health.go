package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/sgisync/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionCounter сообщает число живых websocket-соединений
type ConnectionCounter interface {
	ConnectionCount() int
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger      *slog.Logger
	db          Pinger
	connections ConnectionCounter
	version     string
}

// NewHealthHandler создает новый handler для health check.
// db и connections могут быть nil.
func NewHealthHandler(logger *slog.Logger, version string, db Pinger, connections ConnectionCounter) *HealthHandler {
	return &HealthHandler{
		logger:      logger,
		version:     version,
		db:          db,
		connections: connections,
	}
}

// Health обрабатывает GET /health.
// Клиентский watcher использует его как сигнал наличия связи.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.connections != nil {
		resp.Connections = h.connections.ConnectionCount()
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.ErrorContext(r.Context(), "Health check failed", "error", err)
			resp.Status = "unavailable"
			sendJSON(h.logger, w, resp, http.StatusServiceUnavailable)
			return
		}
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
