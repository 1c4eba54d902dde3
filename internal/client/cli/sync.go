package cli

import (
	"context"
	"fmt"

	httpClient "github.com/iudanet/sgisync/internal/client/api"
	"github.com/iudanet/sgisync/internal/client/sync"
	"github.com/iudanet/sgisync/pkg/api"
)

// Pull однократно запрашивает изменения по HTTP и сохраняет новый watermark.
// full игнорирует сохраненный watermark.
func (c *Cli) Pull(ctx context.Context, full bool) error {
	s, err := c.connect(ctx)
	if err != nil {
		return err
	}

	since := ""
	if !full {
		if since, err = c.storage.GetWatermark(ctx); err != nil {
			return fmt.Errorf("failed to get watermark: %w", err)
		}
	}

	resp, err := s.api.PullChanges(ctx, since)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if err := s.sync.ApplyPull(ctx, resp); err != nil {
		return err
	}

	c.io.Printf("Pulled %d change(s), %d deletion(s)\n", len(resp.Entities), len(resp.Deleted))
	c.io.Printf("Watermark: %s\n", resp.SyncTimestamp)
	return nil
}

// Push однократно отправляет очередь по HTTP
func (c *Cli) Push(ctx context.Context) error {
	count, err := c.queue.PendingCount(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		c.io.Println("Nothing to push")
		return nil
	}

	s, err := c.connect(ctx)
	if err != nil {
		return err
	}

	p := &httpPusher{api: s.api, sync: s.sync}
	if err := c.queue.Drain(ctx, p); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	if p.result == nil {
		return nil
	}

	failed := 0
	for _, r := range p.result.Results {
		if !r.Success {
			failed++
			c.io.Printf("  ✗ %s: %s (%s)\n", r.TempID, r.Error, r.Code)
		}
	}
	c.io.Printf("Pushed %d mutation(s), %d rejected\n", len(p.result.Results)-failed, failed)
	return nil
}

// httpPusher отправляет снимок очереди через POST /api/v1/sync и подтверждает ответ
type httpPusher struct {
	api    *httpClient.Client
	sync   *sync.Service
	result *api.PushResult
}

func (p *httpPusher) Push(ctx context.Context, changes []api.Change) error {
	result, err := p.api.PushChanges(ctx, changes)
	if err != nil {
		return err
	}
	p.result = result
	return p.sync.AcknowledgePush(ctx, result)
}
