package broadcast

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// drain возвращает типы сообщений, уже лежащих в очереди соединения
func drain(c *Conn) []api.MessageType {
	var types []api.MessageType
	for {
		select {
		case data := <-c.Outbound():
			var env api.Envelope
			if err := json.Unmarshal(data, &env); err == nil {
				types = append(types, env.Type)
			}
		default:
			return types
		}
	}
}

func TestHub_RegisterJoinsUserAndRoleRooms(t *testing.T) {
	h := NewHub(setupTestLogger(), 8, nil)

	c := h.Register("c1", models.Identity{UserID: "u1", Role: "admin"})
	assert.Equal(t, 1, h.ConnectionCount())
	assert.Equal(t, 1, h.RoomSize("user:u1"))
	assert.Equal(t, 1, h.RoomSize("role:admin"))
	assert.Equal(t, 0, h.RoomSize(models.RoomAgendaAll))

	h.Join(c, models.RoomAgendaAll)
	assert.Equal(t, 1, h.RoomSize(models.RoomAgendaAll))

	h.Unregister(c)
	assert.Equal(t, 0, h.ConnectionCount())
	assert.Equal(t, 0, h.RoomSize("user:u1"))
	assert.Equal(t, 0, h.RoomSize(models.RoomAgendaAll))

	select {
	case <-c.Done():
	default:
		t.Fatal("Done must be closed after Unregister")
	}

	// Повторная отмена регистрации безопасна
	assert.NotPanics(t, func() { h.Unregister(c) })
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub(setupTestLogger(), 8, nil)

	alice := h.Register("c1", models.Identity{UserID: "alice", Role: "admin"})
	bob := h.Register("c2", models.Identity{UserID: "bob", Role: "tecnico"})
	bobPhone := h.Register("c3", models.Identity{UserID: "bob", Role: "tecnico"})
	h.Join(alice, models.ProjectRoom("p1"))
	h.Join(bob, models.ProjectRoom("p1"))

	t.Run("no scope reaches everyone", func(t *testing.T) {
		h.Broadcast("agenda:created", map[string]string{"id": "e1"})
		assert.Equal(t, []api.MessageType{"agenda:created"}, drain(alice))
		assert.Equal(t, []api.MessageType{"agenda:created"}, drain(bob))
		assert.Equal(t, []api.MessageType{"agenda:created"}, drain(bobPhone))
	})

	t.Run("user room reaches every device of the user", func(t *testing.T) {
		h.Broadcast("notification:new", map[string]string{"id": "n1"}, models.UserRoom("bob"))
		assert.Empty(t, drain(alice))
		assert.Len(t, drain(bob), 1)
		assert.Len(t, drain(bobPhone), 1)
	})

	t.Run("overlapping scopes deliver once", func(t *testing.T) {
		h.Broadcast("agenda:updated", nil, models.ProjectRoom("p1"), models.RoleRoom("admin"))
		assert.Len(t, drain(alice), 1)
		assert.Len(t, drain(bob), 1)
		assert.Empty(t, drain(bobPhone))
	})

	t.Run("unknown room reaches nobody", func(t *testing.T) {
		h.Broadcast("agenda:updated", nil, "project:none")
		assert.Empty(t, drain(alice))
		assert.Empty(t, drain(bob))
	})

	t.Run("except skips sender", func(t *testing.T) {
		h.BroadcastExcept(bob.ID(), api.MessagePresenceUpdated, api.PresenceUpdated{UserID: "bob"})
		assert.Len(t, drain(alice), 1)
		assert.Empty(t, drain(bob))
		assert.Len(t, drain(bobPhone), 1)
	})
}

func TestHub_FullQueueDrops(t *testing.T) {
	h := NewHub(setupTestLogger(), 2, nil)
	slow := h.Register("slow", models.Identity{UserID: "u1"})
	fast := h.Register("fast", models.Identity{UserID: "u2"})

	for i := 0; i < 5; i++ {
		h.Broadcast("agenda:updated", map[string]int{"i": i})
		drain(fast)
	}

	// Медленный клиент получил только то, что поместилось, остальное отброшено
	assert.Len(t, drain(slow), 2)
	assert.Equal(t, 2, h.ConnectionCount(), "slow client stays connected")
}

func TestHub_Send(t *testing.T) {
	h := NewHub(setupTestLogger(), 1, nil)
	c := h.Register("c1", models.Identity{UserID: "u1"})

	ctx := context.Background()
	require.NoError(t, h.Send(ctx, c, api.MessagePushResult, api.PushResult{SyncTimestamp: "t"}))

	// Очередь заполнена: Send ждет места и прерывается по контексту
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Send(timeoutCtx, c, api.MessagePushResult, nil), context.DeadlineExceeded)

	h.Unregister(c)
	assert.ErrorIs(t, h.Send(ctx, c, api.MessagePushResult, nil), ErrConnectionClosed)
}
