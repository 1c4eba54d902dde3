// Package broadcast рассылает серверные события подключенным клиентам по комнатам.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/server/metrics"
	"github.com/iudanet/sgisync/pkg/api"
)

// DefaultOutboundBuffer размер исходящей очереди соединения по умолчанию
const DefaultOutboundBuffer = 256

// ErrConnectionClosed indicates that the connection was unregistered
var ErrConnectionClosed = errors.New("connection closed")

// Conn одно зарегистрированное соединение.
// Все исходящие сообщения проходят через одну упорядоченную очередь.
type Conn struct {
	outbound chan []byte
	done     chan struct{}
	rooms    map[string]struct{}
	identity models.Identity
	id       string
	once     sync.Once
}

// ID возвращает идентификатор соединения
func (c *Conn) ID() string { return c.id }

// Identity возвращает участника, которому принадлежит соединение
func (c *Conn) Identity() models.Identity { return c.identity }

// Outbound очередь сериализованных конвертов для writer-горутины
func (c *Conn) Outbound() <-chan []byte { return c.outbound }

// Done закрывается при отмене регистрации
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub реестр соединений и комнат
type Hub struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	conns      map[string]*Conn
	rooms      map[string]map[string]*Conn
	bufferSize int
	mu         sync.RWMutex
}

// NewHub создает реестр. bufferSize <= 0 означает DefaultOutboundBuffer.
func NewHub(logger *slog.Logger, bufferSize int, m *metrics.Metrics) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultOutboundBuffer
	}
	return &Hub{
		logger:     logger,
		metrics:    m,
		conns:      make(map[string]*Conn),
		rooms:      make(map[string]map[string]*Conn),
		bufferSize: bufferSize,
	}
}

// Register регистрирует соединение и сразу добавляет его в комнаты
// пользователя и роли.
func (h *Hub) Register(id string, identity models.Identity) *Conn {
	c := &Conn{
		id:       id,
		identity: identity,
		outbound: make(chan []byte, h.bufferSize),
		done:     make(chan struct{}),
		rooms:    make(map[string]struct{}),
	}

	h.mu.Lock()
	h.conns[id] = c
	h.joinLocked(c, models.UserRoom(identity.UserID))
	if identity.Role != "" {
		h.joinLocked(c, models.RoleRoom(identity.Role))
	}
	count := len(h.conns)
	h.mu.Unlock()

	h.metrics.ConnectionOpened()
	h.logger.Debug("Connection registered",
		"conn_id", id,
		"user_id", identity.UserID,
		"connections", count,
	)
	return c
}

// Unregister удаляет соединение из реестра и всех комнат. Повторный вызов безопасен.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	if _, ok := h.conns[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c.id)
	for room := range c.rooms {
		members := h.rooms[room]
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	count := len(h.conns)
	h.mu.Unlock()

	c.close()
	h.metrics.ConnectionClosed()
	h.logger.Debug("Connection unregistered",
		"conn_id", c.id,
		"user_id", c.identity.UserID,
		"connections", count,
	)
}

// Join добавляет соединение в комнату
func (h *Hub) Join(c *Conn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c.id]; !ok {
		return
	}
	h.joinLocked(c, room)
}

func (h *Hub) joinLocked(c *Conn, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Conn)
		h.rooms[room] = members
	}
	members[c.id] = c
	c.rooms[room] = struct{}{}
}

// ConnectionCount число живых соединений
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// RoomSize число соединений в комнате
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast рассылает событие. Без scopes получают все соединения,
// иначе объединение участников перечисленных комнат (каждое соединение один раз).
// Доставка best-effort: если очередь соединения заполнена, сообщение для него отбрасывается.
func (h *Hub) Broadcast(event api.MessageType, payload any, scopes ...string) {
	h.broadcast("", event, payload, scopes)
}

// BroadcastExcept как Broadcast, но пропускает соединение exceptID
func (h *Hub) BroadcastExcept(exceptID string, event api.MessageType, payload any, scopes ...string) {
	h.broadcast(exceptID, event, payload, scopes)
}

func (h *Hub) broadcast(exceptID string, event api.MessageType, payload any, scopes []string) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("Failed to encode broadcast",
			"event", event,
			"error", err,
		)
		return
	}

	h.metrics.Broadcast(string(event))

	h.mu.RLock()
	defer h.mu.RUnlock()

	deliver := func(c *Conn) {
		if c.id == exceptID {
			return
		}
		select {
		case c.outbound <- data:
		default:
			h.metrics.Dropped(string(event))
			h.logger.Warn("Outbound queue full, dropping message",
				"conn_id", c.id,
				"user_id", c.identity.UserID,
				"event", event,
			)
		}
	}

	if len(scopes) == 0 {
		for _, c := range h.conns {
			deliver(c)
		}
		return
	}

	seen := make(map[string]struct{})
	for _, room := range scopes {
		for id, c := range h.rooms[room] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			deliver(c)
		}
	}
}

// Send ставит прямой ответ в очередь соединения, ожидая места в очереди.
// В отличие от рассылок ответы не отбрасываются.
func (h *Hub) Send(ctx context.Context, c *Conn, msgType api.MessageType, payload any) error {
	data, err := encode(msgType, payload)
	if err != nil {
		return err
	}

	select {
	case c.outbound <- data:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func encode(msgType api.MessageType, payload any) ([]byte, error) {
	env, err := api.NewEnvelope(msgType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}
