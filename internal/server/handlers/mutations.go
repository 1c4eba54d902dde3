package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/sgisync/internal/server/auth"
	"github.com/iudanet/sgisync/pkg/api"
)

// MutationHandler принимает одиночную мутацию по прямому запросу.
// Клиент использует его, пока online; при сетевой ошибке мутация уходит в очередь.
type MutationHandler struct {
	logger *slog.Logger
	engine SyncEngine
}

// NewMutationHandler создает handler прямых мутаций
func NewMutationHandler(logger *slog.Logger, engine SyncEngine) *MutationHandler {
	return &MutationHandler{
		logger: logger,
		engine: engine,
	}
}

// Mutate обрабатывает POST /api/v1/mutations
func (h *MutationHandler) Mutate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "Identity not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var change api.Change
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&change); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode mutation", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := h.engine.ApplyPushedChange(ctx, identity, change)
	sendJSON(h.logger, w, result, statusForResult(&result, change.Action))
}

// statusForResult сопоставляет результат мутации с HTTP статусом
func statusForResult(result *api.ChangeResult, action string) int {
	if result.Success {
		if action == api.ActionCreate {
			return http.StatusCreated
		}
		return http.StatusOK
	}

	switch result.Code {
	case api.CodeValidation:
		return http.StatusBadRequest
	case api.CodeNotFound:
		return http.StatusNotFound
	case api.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
