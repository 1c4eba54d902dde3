package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/sgisync/internal/client/queue"
)

// EnqueueParams параметры команды enqueue
type EnqueueParams struct {
	BaseVersion *int64
	Kind        string
	Action      string
	TargetID    string
	Payload     string
	// Direct сначала пробует применить мутацию на сервере по HTTP
	Direct bool
}

// Enqueue проверяет мутацию и ставит ее в локальную очередь.
// С Direct мутация отправляется сразу, а в очередь попадает только если сервер недоступен.
func (c *Cli) Enqueue(ctx context.Context, p EnqueueParams) error {
	payload := json.RawMessage(p.Payload)
	if len(payload) > 0 && !json.Valid(payload) {
		return fmt.Errorf("payload is not valid JSON")
	}

	var opts []queue.EnqueueOption
	if p.BaseVersion != nil {
		opts = append(opts, queue.WithBaseVersion(*p.BaseVersion))
	}

	var s *session
	if p.Direct {
		var err error
		if s, err = c.connect(ctx); err != nil {
			return err
		}
		s.sync.WithOnlineCheck(func() bool { return true })
	} else {
		s = c.newSession("")
	}

	result, err := s.sync.Mutate(ctx, p.Kind, p.Action, payload, p.TargetID, opts...)
	if err != nil {
		return fmt.Errorf("mutation rejected: %w", err)
	}

	if result.Queued {
		c.io.Printf("Queued %s %s as %s\n", p.Action, p.Kind, result.TempID)
		return nil
	}

	id := result.Result.ServerID
	if id == "" {
		id = result.Result.ID
	}
	if result.Result.Entity != nil {
		c.io.Printf("Applied %s %s: id=%s version=%d\n", p.Action, p.Kind, id, result.Result.Entity.SyncVersion)
		return nil
	}
	c.io.Printf("Applied %s %s: id=%s\n", p.Action, p.Kind, id)
	return nil
}
