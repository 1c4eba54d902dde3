package cli

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/sgisync/internal/client/monitor"
	"github.com/iudanet/sgisync/internal/client/spool"
	"github.com/iudanet/sgisync/internal/client/sync"
	"github.com/iudanet/sgisync/internal/client/transport"
	"github.com/iudanet/sgisync/pkg/api"
)

// RunDaemon держит соединение с сервером до отмены ctx: переподключение,
// проверка доступности, отправка очереди и прием файлов из spool_dir.
func (c *Cli) RunDaemon(ctx context.Context) error {
	s, err := c.connect(ctx)
	if err != nil {
		return err
	}

	mon := monitor.New(c.logger, s.transport, s.sync, monitor.Options{Debounce: c.cfg.Debounce})
	s.sync.WithOnlineCheck(mon.IsOnline)
	health := monitor.NewWatcher(c.logger, s.api, mon, c.cfg.CheckInterval)

	unsubscribe := c.logEvents(ctx)
	defer unsubscribe()

	c.logger.InfoContext(ctx, "Sync client started",
		"server_url", c.cfg.ServerURL,
		"scopes", c.cfg.Scopes,
		"spool_dir", c.cfg.SpoolDir,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.transport.Run(gctx, s.sync)
		if errors.Is(err, transport.ErrUnauthorized) {
			return fmt.Errorf("server rejected token, run 'sgisync-client login': %w", err)
		}
		return err
	})

	g.Go(func() error {
		health.Run(gctx)
		return nil
	})

	if c.cfg.SpoolDir != "" {
		g.Go(func() error {
			return spool.NewWatcher(c.logger, c.cfg.SpoolDir, s.sync).Run(gctx)
		})
	}

	err = g.Wait()
	c.logger.InfoContext(ctx, "Sync client stopped")
	return err
}

// logEvents пишет события шины в debug лог
func (c *Cli) logEvents(ctx context.Context) func() {
	names := []string{
		sync.EventConnected,
		sync.EventDisconnected,
		sync.EventQueued,
		sync.EventPushResult,
		sync.EventPullComplete,
		sync.EventSyncError,
		string(api.MessagePresenceUpdated),
		string(api.MessagePresenceLeft),
	}
	for _, kind := range []string{api.KindAgenda, api.KindNotification} {
		names = append(names,
			string(api.EventName(kind, api.EventCreated)),
			string(api.EventName(kind, api.EventUpdated)),
			string(api.EventName(kind, api.EventDeleted)),
			string(api.EventName(kind, api.EventNew)),
			string(api.EventName(kind, sync.EventSynced)),
		)
	}

	unsubscribes := make([]func(), 0, len(names))
	for _, name := range names {
		unsubscribes = append(unsubscribes, c.bus.On(name, func(data any) error {
			c.logger.DebugContext(ctx, "Local event", "event", name)
			return nil
		}))
	}

	return func() {
		for _, off := range unsubscribes {
			off()
		}
	}
}
