// Package cli реализует команды клиента синхронизации.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	httpClient "github.com/iudanet/sgisync/internal/client/api"
	"github.com/iudanet/sgisync/internal/client/auth"
	"github.com/iudanet/sgisync/internal/client/events"
	"github.com/iudanet/sgisync/internal/client/iocli"
	"github.com/iudanet/sgisync/internal/client/queue"
	"github.com/iudanet/sgisync/internal/client/storage/boltdb"
	"github.com/iudanet/sgisync/internal/client/sync"
	"github.com/iudanet/sgisync/internal/client/transport"
	"github.com/iudanet/sgisync/internal/config"
)

type Cli struct {
	io      iocli.IO
	logger  *slog.Logger
	storage *boltdb.Storage
	queue   *queue.Queue
	bus     *events.Bus
	tokens  *auth.TokenService
	cfg     config.Client
}

// New открывает локальное хранилище. Второй процесс с тем же db_path
// получит ошибку: пока работает run, мутации передаются через spool_dir.
func New(ctx context.Context, cfg config.Client, logger *slog.Logger, io iocli.IO) (*Cli, error) {
	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database %s: %w", cfg.DBPath, err)
	}

	return &Cli{
		io:      io,
		logger:  logger,
		storage: store,
		queue:   queue.New(store, logger),
		bus:     events.NewBus(logger),
		tokens:  auth.NewTokenService(store, io),
		cfg:     cfg,
	}, nil
}

// Close закрывает локальное хранилище
func (c *Cli) Close() error {
	return c.storage.Close()
}

// Bus локальная шина событий клиента
func (c *Cli) Bus() *events.Bus {
	return c.bus
}

// session компоненты, которым нужен токен
type session struct {
	api       *httpClient.Client
	transport *transport.Client
	sync      *sync.Service
}

// connect находит токен и собирает HTTP клиент, websocket транспорт и сервис синхронизации
func (c *Cli) connect(ctx context.Context) (*session, error) {
	token, err := c.tokens.Resolve(ctx, c.cfg.Token)
	if err != nil {
		return nil, err
	}
	return c.newSession(token), nil
}

// newSession собирает компоненты для токена. Пустой токен годится только
// для работы без сервера: постановки в очередь и чтения состояния.
func (c *Cli) newSession(token string) *session {
	apiClient := httpClient.NewClient(c.cfg.ServerURL, token)
	wsClient := transport.New(c.logger, transport.Options{
		ServerURL: c.cfg.ServerURL,
		Token:     token,
	})
	svc := sync.NewService(c.logger, c.queue, c.storage, wsClient, c.bus, apiClient, sync.Options{
		Scopes: c.cfg.Scopes,
	})

	return &session{
		api:       apiClient,
		transport: wsClient,
		sync:      svc,
	}
}
