// Package transport принимает websocket-соединения клиентов синхронизации
// и обрабатывает сообщения протокола.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/server/auth"
	"github.com/iudanet/sgisync/internal/server/broadcast"
	"github.com/iudanet/sgisync/internal/server/metrics"
	"github.com/iudanet/sgisync/internal/validation"
	"github.com/iudanet/sgisync/pkg/api"
)

const (
	// MaxMessageBytes максимальный размер входящего сообщения
	MaxMessageBytes = 1 << 20

	// DefaultWriteTimeout таймаут записи одного сообщения
	DefaultWriteTimeout = 10 * time.Second
)

//go:generate moq -out engine_mock.go . Engine

// Engine операции движка согласования, доступные по websocket
type Engine interface {
	PullSince(ctx context.Context, identity models.Identity, watermark string) (*api.PullResponse, error)
	ApplyBatch(ctx context.Context, identity models.Identity, changes []api.Change) *api.PushResult
}

// Options настройки websocket handler
type Options struct {
	// OriginPatterns разрешенные Origin для браузерных клиентов
	OriginPatterns []string
	WriteTimeout   time.Duration
}

// Handler обслуживает GET /ws
type Handler struct {
	logger   *slog.Logger
	verifier auth.Verifier
	engine   Engine
	hub      *broadcast.Hub
	metrics  *metrics.Metrics
	now      func() time.Time
	opts     Options
}

// NewHandler создает websocket handler
func NewHandler(
	logger *slog.Logger,
	verifier auth.Verifier,
	engine Engine,
	hub *broadcast.Hub,
	m *metrics.Metrics,
	opts Options,
) *Handler {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	return &Handler{
		logger:   logger,
		verifier: verifier,
		engine:   engine,
		hub:      hub,
		metrics:  m,
		now:      time.Now,
		opts:     opts,
	}
}

// ServeHTTP проверяет учетные данные до upgrade.
// Неаутентифицированный запрос получает 401 и не создает никакого состояния.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.authenticate(r)
	if err != nil {
		h.metrics.HandshakeRejected()
		h.logger.WarnContext(r.Context(), "Websocket handshake rejected",
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(MaxMessageBytes)

	c := h.hub.Register(uuid.NewString(), *identity)
	h.logger.InfoContext(r.Context(), "Client connected",
		"conn_id", c.ID(),
		"user_id", identity.UserID,
		"connections", h.hub.ConnectionCount(),
	)

	err = h.serve(r.Context(), conn, c)

	h.hub.Unregister(c)
	h.hub.Broadcast(api.MessagePresenceLeft, api.PresenceLeft{UserID: identity.UserID}, models.RoomAgendaAll)

	status := websocket.CloseStatus(err)
	if status == -1 && err != nil && !errors.Is(err, context.Canceled) {
		h.logger.WarnContext(r.Context(), "Connection closed with error",
			"conn_id", c.ID(),
			"user_id", identity.UserID,
			"error", err,
		)
		_ = conn.Close(websocket.StatusInternalError, "internal error")
	} else {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}

	h.logger.InfoContext(r.Context(), "Client disconnected",
		"conn_id", c.ID(),
		"user_id", identity.UserID,
		"connections", h.hub.ConnectionCount(),
	)
}

func (h *Handler) authenticate(r *http.Request) (*models.Identity, error) {
	token, err := auth.BearerFromRequest(r)
	if err != nil {
		return nil, err
	}
	return h.verifier.VerifyCredential(token)
}

// serve запускает writer и читает сообщения до разрыва соединения
func (h *Handler) serve(ctx context.Context, conn *websocket.Conn, c *broadcast.Conn) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.writeLoop(ctx, conn, c)
	})
	g.Go(func() error {
		return h.readLoop(ctx, conn, c)
	})

	return g.Wait()
}

// writeLoop единственный писатель в соединение: порядок очереди сохраняется
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, c *broadcast.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.Done():
			return broadcast.ErrConnectionClosed
		case data := <-c.Outbound():
			writeCtx, cancel := context.WithTimeout(ctx, h.opts.WriteTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// readLoop обрабатывает сообщения соединения строго последовательно
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, c *broadcast.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var env api.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.logger.WarnContext(ctx, "Malformed envelope", "conn_id", c.ID(), "error", err)
			if err := h.sendError(ctx, c, "", "malformed message"); err != nil {
				return err
			}
			continue
		}

		h.metrics.MessageReceived(string(env.Type))
		if err := h.handle(ctx, c, env); err != nil {
			return err
		}
	}
}

// handle обрабатывает одно сообщение. Ошибка возвращается только если
// соединение больше нельзя использовать.
func (h *Handler) handle(ctx context.Context, c *broadcast.Conn, env api.Envelope) error {
	identity := c.Identity()

	switch env.Type {
	case api.MessageSubscribe:
		var req api.SubscribeRequest
		if len(env.Data) > 0 {
			if err := env.Decode(&req); err != nil {
				return h.sendError(ctx, c, env.Type, err.Error())
			}
		}
		room, err := validation.ResolveScope(req.Scope)
		if err != nil {
			h.logger.WarnContext(ctx, "Subscribe rejected",
				"conn_id", c.ID(),
				"scope", req.Scope,
				"error", err,
			)
			return h.sendError(ctx, c, env.Type, err.Error())
		}
		h.hub.Join(c, room)
		h.logger.DebugContext(ctx, "Subscribed", "conn_id", c.ID(), "room", room)
		return nil

	case api.MessagePullRequest:
		var req api.PullRequest
		if len(env.Data) > 0 {
			if err := env.Decode(&req); err != nil {
				return h.sendError(ctx, c, env.Type, err.Error())
			}
		}
		resp, err := h.engine.PullSince(ctx, identity, req.Since)
		if err != nil {
			h.logger.ErrorContext(ctx, "Pull failed",
				"conn_id", c.ID(),
				"user_id", identity.UserID,
				"since", req.Since,
				"error", err,
			)
			if errors.Is(err, api.ErrValidation) {
				return h.sendError(ctx, c, env.Type, err.Error())
			}
			return h.sendError(ctx, c, env.Type, "pull failed")
		}
		return h.hub.Send(ctx, c, api.MessagePullResponse, resp)

	case api.MessagePushRequest:
		var req api.PushRequest
		if err := env.Decode(&req); err != nil {
			return h.sendError(ctx, c, env.Type, err.Error())
		}
		result := h.engine.ApplyBatch(ctx, identity, req.Changes)
		return h.hub.Send(ctx, c, api.MessagePushResult, result)

	case api.MessagePresenceUpdate:
		var req api.PresenceUpdate
		if err := env.Decode(&req); err != nil {
			return h.sendError(ctx, c, env.Type, err.Error())
		}
		h.hub.BroadcastExcept(c.ID(), api.MessagePresenceUpdated, api.PresenceUpdated{
			Timestamp: h.now().UTC(),
			UserID:    identity.UserID,
			View:      req.View,
			EntityID:  req.EntityID,
		}, models.RoomAgendaAll)
		return nil

	default:
		h.logger.WarnContext(ctx, "Unknown message type", "conn_id", c.ID(), "type", env.Type)
		return h.sendError(ctx, c, env.Type, "unknown message type")
	}
}

func (h *Handler) sendError(ctx context.Context, c *broadcast.Conn, requestType api.MessageType, message string) error {
	return h.hub.Send(ctx, c, api.MessageSyncError, api.SyncError{
		Message:     message,
		RequestType: requestType,
	})
}
