package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/sgisync/pkg/api"
)

//go:generate moq -out health_mock.go . HealthChecker
//go:generate moq -out target_mock.go . Target

// HealthChecker проверка доступности сервера
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// Target получатель сигналов о связи
type Target interface {
	OnBecameOnline(ctx context.Context) error
	OnBecameOffline(ctx context.Context) error
}

// Watcher опрашивает /health и сообщает Target только о смене состояния
type Watcher struct {
	logger   *slog.Logger
	checker  HealthChecker
	target   Target
	interval time.Duration
	timeout  time.Duration
	known    bool
	online   bool
}

// NewWatcher создает watcher с периодом interval
func NewWatcher(logger *slog.Logger, checker HealthChecker, target Target, interval time.Duration) *Watcher {
	return &Watcher{
		logger:   logger,
		checker:  checker,
		target:   target,
		interval: interval,
		timeout:  max(interval/2, time.Second),
	}
}

// Run опрашивает сервер до отмены ctx. Первая проверка выполняется сразу.
func (p *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Check(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Check одна проверка
func (p *Watcher) Check(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
	_, err := p.checker.Health(checkCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}

	online := err == nil
	if p.known && online == p.online {
		return
	}
	p.known = true
	p.online = online

	if online {
		if err := p.target.OnBecameOnline(ctx); err != nil {
			p.logger.WarnContext(ctx, "Catch-up after reconnect failed", "error", err)
		}
		return
	}

	p.logger.WarnContext(ctx, "Server unreachable", "error", err)
	if err := p.target.OnBecameOffline(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Failed to mark offline", "error", err)
	}
}
