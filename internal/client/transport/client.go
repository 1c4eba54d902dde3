// Package transport websocket-соединение клиента с сервером синхронизации.
// Run держит соединение и переподключается с экспоненциальной задержкой.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/websocket"

	"github.com/iudanet/sgisync/pkg/api"
)

var (
	// ErrNotConnected нет активного соединения
	ErrNotConnected = errors.New("not connected")

	// ErrUnauthorized сервер отклонил учетные данные при handshake
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	// MaxMessageBytes максимальный размер входящего сообщения
	MaxMessageBytes = 1 << 20

	defaultDialTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultMinBackoff   = 500 * time.Millisecond
	defaultMaxBackoff   = 30 * time.Second
)

//go:generate moq -out handler_mock.go . Handler

// Handler получает события соединения. Все методы вызываются из горутины Run.
type Handler interface {
	// HandleConnected вызывается сразу после handshake, до чтения сообщений
	HandleConnected(ctx context.Context) error
	// HandleDisconnected вызывается после потери соединения
	HandleDisconnected(ctx context.Context)
	// HandleMessage вызывается для каждого входящего сообщения по порядку
	HandleMessage(ctx context.Context, env api.Envelope) error
}

// Options параметры соединения
type Options struct {
	// ServerURL базовый адрес сервера (http, https, ws или wss)
	ServerURL    string
	Token        string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	MinBackoff   time.Duration
	MaxBackoff   time.Duration
}

// Client websocket клиент синхронизации
type Client struct {
	logger    *slog.Logger
	conn      *websocket.Conn
	reconnect chan struct{}
	opts      Options
	mu        sync.RWMutex
}

// New создает клиента. Соединение устанавливает Run.
func New(logger *slog.Logger, opts Options) *Client {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = max(defaultMaxBackoff, opts.MinBackoff)
	}
	return &Client{
		logger:    logger,
		reconnect: make(chan struct{}, 1),
		opts:      opts,
	}
}

// Run поддерживает соединение до отмены ctx.
// Возвращает ErrUnauthorized, если сервер отклонил токен; при отмене ctx возвращает nil.
func (c *Client) Run(ctx context.Context, h Handler) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.MinBackoff
	b.MaxInterval = c.opts.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	for {
		connected, err := c.session(ctx, h)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrUnauthorized) {
			c.logger.ErrorContext(ctx, "Server rejected credentials, giving up", "error", err)
			return err
		}
		if connected {
			b.Reset()
		}

		wait := b.NextBackOff()
		c.logger.WarnContext(ctx, "Sync connection unavailable",
			"error", err,
			"retry_in", wait,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-c.reconnect:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Reconnect прерывает ожидание перед следующей попыткой соединения
func (c *Client) Reconnect() {
	select {
	case c.reconnect <- struct{}{}:
	default:
	}
}

// IsConnected сообщает, есть ли активное соединение
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// Send отправляет одно сообщение. Без соединения возвращает ErrNotConnected.
func (c *Client) Send(ctx context.Context, msgType api.MessageType, payload any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	env, err := api.NewEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("%w: failed to send %s: %v", ErrNotConnected, msgType, err)
	}
	return nil
}

// session одно соединение: handshake, HandleConnected, чтение до ошибки.
// connected сообщает, был ли handshake успешным.
func (c *Client) session(ctx context.Context, h Handler) (connected bool, err error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return false, err
	}
	conn.SetReadLimit(MaxMessageBytes)

	c.setConn(conn)
	c.logger.InfoContext(ctx, "Sync connection established", "server_url", c.opts.ServerURL)

	defer func() {
		c.setConn(nil)
		_ = conn.CloseNow()
		h.HandleDisconnected(ctx)
		c.logger.InfoContext(ctx, "Sync connection closed", "error", err)
	}()

	if err := h.HandleConnected(ctx); err != nil {
		c.logger.ErrorContext(ctx, "Connect handler failed", "error", err)
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return true, err
		}

		var env api.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.WarnContext(ctx, "Malformed message from server", "error", err)
			continue
		}
		if err := h.HandleMessage(ctx, env); err != nil {
			c.logger.ErrorContext(ctx, "Message handler failed",
				"type", env.Type,
				"error", err,
			)
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.opts.DialTimeout)
	defer cancel()

	header := http.Header{}
	if c.opts.Token != "" {
		header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	conn, resp, err := websocket.Dial(dialCtx, WebsocketURL(c.opts.ServerURL), &websocket.DialOptions{
		HTTPHeader: header,
	})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: handshake returned %d", ErrUnauthorized, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to dial sync server: %w", err)
	}
	return conn, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
}

// WebsocketURL адрес endpoint /ws для базового адреса сервера
func WebsocketURL(serverURL string) string {
	return strings.TrimRight(serverURL, "/") + "/ws"
}
