package cli

import (
	"context"
	"fmt"
	"time"
)

// Status печатает состояние локальной очереди, watermark и токена
func (c *Cli) Status(ctx context.Context) error {
	c.io.Println("=== Sync Status ===")
	c.io.Println()
	c.io.Printf("Server:    %s\n", c.cfg.ServerURL)

	switch stored, err := c.tokens.IsStored(ctx); {
	case err != nil:
		return err
	case c.cfg.Token != "":
		c.io.Println("Token:     from config")
	case stored:
		c.io.Println("Token:     stored")
	default:
		c.io.Println("Token:     not set (run 'sgisync-client login')")
	}

	watermark, err := c.storage.GetWatermark(ctx)
	if err != nil {
		return fmt.Errorf("failed to get watermark: %w", err)
	}
	if watermark == "" {
		watermark = "(never synced)"
	}
	c.io.Printf("Watermark: %s\n", watermark)

	pending, err := c.queue.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending mutations: %w", err)
	}

	c.io.Println()
	if len(pending) == 0 {
		c.io.Println("✓ Queue is empty")
		return nil
	}

	c.io.Printf("Pending:   %d mutation(s)\n", len(pending))
	for _, r := range pending {
		target := r.TargetID
		if target == "" {
			target = "-"
		}
		c.io.Printf("  %s  %-6s %-12s %-36s %s\n",
			r.ClientTempID, r.Action, r.EntityKind, target, r.EnqueuedAt.Format(time.RFC3339))
	}
	c.io.Println()
	c.io.Println("Run 'sgisync-client push' or 'sgisync-client run' to send them.")
	return nil
}
