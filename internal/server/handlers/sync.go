package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/server/auth"
	"github.com/iudanet/sgisync/pkg/api"
)

// MaxBodyBytes ограничение размера тела запроса
const MaxBodyBytes = 1 << 20

//go:generate moq -out engine_mock.go . SyncEngine

// SyncEngine определяет интерфейс движка синхронизации
type SyncEngine interface {
	PullSince(ctx context.Context, identity models.Identity, watermark string) (*api.PullResponse, error)
	ApplyPushedChange(ctx context.Context, identity models.Identity, change api.Change) api.ChangeResult
	ApplyBatch(ctx context.Context, identity models.Identity, changes []api.Change) *api.PushResult
}

// SyncHandler handles HTTP pull/push requests
type SyncHandler struct {
	logger *slog.Logger
	engine SyncEngine
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(logger *slog.Logger, engine SyncEngine) *SyncHandler {
	return &SyncHandler{
		logger: logger,
		engine: engine,
	}
}

// HandleSync обрабатывает GET и POST запросы для синхронизации
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Участник установлен AuthMiddleware
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "Identity not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handlePull(w, r, identity)
	case http.MethodPost:
		h.handlePush(w, r, identity)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handlePull обрабатывает GET /api/v1/sync?since=<watermark>
func (h *SyncHandler) handlePull(w http.ResponseWriter, r *http.Request, identity models.Identity) {
	ctx := r.Context()
	since := r.URL.Query().Get("since")

	resp, err := h.engine.PullSince(ctx, identity, since)
	if err != nil {
		if errors.Is(err, api.ErrValidation) {
			h.logger.WarnContext(ctx, "Invalid since parameter", "since", since, "error", err)
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "Failed to pull changes", "user_id", identity.UserID, "error", err)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, resp, http.StatusOK)

	h.logger.InfoContext(ctx, "HTTP pull completed",
		"user_id", identity.UserID,
		"since", since,
		"entities_count", len(resp.Entities),
		"deleted_count", len(resp.Deleted),
	)
}

// handlePush обрабатывает POST /api/v1/sync с пакетом мутаций
func (h *SyncHandler) handlePush(w http.ResponseWriter, r *http.Request, identity models.Identity) {
	ctx := r.Context()

	var req api.PushRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode push request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := h.engine.ApplyBatch(ctx, identity, req.Changes)
	sendJSON(h.logger, w, result, http.StatusOK)

	failed := 0
	for _, res := range result.Results {
		if !res.Success {
			failed++
		}
	}
	h.logger.InfoContext(ctx, "HTTP push completed",
		"user_id", identity.UserID,
		"changes_count", len(req.Changes),
		"failed_count", failed,
	)
}
