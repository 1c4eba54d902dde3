// Package server собирает сервер синхронизации: хранилище, движок согласования,
// рассылку, websocket транспорт и HTTP маршруты.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/sgisync/internal/config"
	"github.com/iudanet/sgisync/internal/server/auth"
	"github.com/iudanet/sgisync/internal/server/broadcast"
	"github.com/iudanet/sgisync/internal/server/handlers"
	"github.com/iudanet/sgisync/internal/server/metrics"
	"github.com/iudanet/sgisync/internal/server/middleware"
	"github.com/iudanet/sgisync/internal/server/reconcile"
	"github.com/iudanet/sgisync/internal/server/storage/sqlite"
	"github.com/iudanet/sgisync/internal/server/transport"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	purgeInterval     = time.Hour
)

// Server сервер синхронизации
type Server struct {
	logger  *slog.Logger
	storage *sqlite.Storage
	hub     *broadcast.Hub
	engine  *reconcile.Engine
	metrics *metrics.Metrics
	limiter *middleware.RateLimiter
	handler http.Handler
	cfg     config.Server
}

// New открывает хранилище и собирает все компоненты сервера
func New(ctx context.Context, cfg config.Server, logger *slog.Logger, version string) (*Server, error) {
	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	m := metrics.New()
	hub := broadcast.NewHub(logger, cfg.OutboundBuffer, m)
	engine := reconcile.New(
		reconcile.Config{StrictVersions: cfg.StrictVersions},
		store.Clock(),
		store,
		hub,
		logger,
		m,
		store.Agenda(),
		store.Notifications(),
	)
	tokens := auth.NewJWT(auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	})

	s := &Server{
		logger:  logger,
		storage: store,
		hub:     hub,
		engine:  engine,
		metrics: m,
		limiter: middleware.NewRateLimiter(cfg.HandshakeRate, cfg.HandshakeWindow, logger),
		cfg:     cfg,
	}
	s.handler = s.routes(tokens, version)

	logger.InfoContext(ctx, "Server initialized",
		"db_path", cfg.DBPath,
		"strict_versions", cfg.StrictVersions,
		"outbound_buffer", cfg.OutboundBuffer,
	)
	return s, nil
}

// routes регистрирует HTTP маршруты
func (s *Server) routes(verifier auth.Verifier, version string) http.Handler {
	syncHandler := handlers.NewSyncHandler(s.logger, s.engine)
	mutationHandler := handlers.NewMutationHandler(s.logger, s.engine)
	healthHandler := handlers.NewHealthHandler(s.logger, version, s.storage.DB(), s.hub)
	wsHandler := transport.NewHandler(s.logger, verifier, s.engine, s.hub, s.metrics, transport.Options{
		OriginPatterns: s.cfg.OriginPatterns,
	})
	requireAuth := middleware.AuthMiddleware(s.logger, verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("GET /ws", s.limiter.Middleware(wsHandler))
	mux.Handle("/api/v1/sync", requireAuth(http.HandlerFunc(syncHandler.HandleSync)))
	mux.Handle("POST /api/v1/mutations", requireAuth(http.HandlerFunc(mutationHandler.Mutate)))

	var h http.Handler = mux
	h = middleware.LoggingMiddleware(s.logger, "/health", "/metrics")(h)
	h = middleware.RecoveryMiddleware(s.logger)(h)
	return h
}

// Handler возвращает корневой HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub возвращает реестр соединений
func (s *Server) Hub() *broadcast.Hub {
	return s.hub
}

// Close закрывает хранилище. Нужен, только если Serve не вызывался.
func (s *Server) Close() error {
	return s.storage.Close()
}

// Run слушает cfg.ListenAddr до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx, затем корректно останавливается и закрывает хранилище
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.InfoContext(gctx, "Server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.limiter.Run(gctx)
		return nil
	})

	if s.cfg.TombstoneRetention > 0 {
		g.Go(func() error {
			s.purgeLoop(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.storage.Close(); closeErr != nil {
		s.logger.Error("Failed to close storage", "error", closeErr)
	}
	return err
}

// purgeLoop удаляет tombstones старше TombstoneRetention.
// Клиент, отсутствовавший дольше, не узнает об этих удалениях.
func (s *Server) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		s.purgeTombstones(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) purgeTombstones(ctx context.Context) {
	before := time.Now().Add(-s.cfg.TombstoneRetention)
	n, err := s.storage.PurgeTombstones(ctx, before)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.ErrorContext(ctx, "Failed to purge tombstones", "error", err)
		}
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Tombstones purged", "count", n, "before", before)
	}
}
