package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/pkg/api"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestNewAgendaEvent(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	e, err := NewAgendaEvent("e1", "creator", &api.AgendaPayload{
		Titulo:     strPtr("Manutenção preventiva"),
		DataInicio: timePtr(start),
	})
	require.NoError(t, err)

	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "creator", e.CreatorID)
	assert.Equal(t, DefaultAgendaTipo, e.Tipo)
	assert.Equal(t, DefaultAgendaPrioridade, e.Prioridade)
	assert.Equal(t, start, e.DataInicio)
	assert.NotNil(t, e.AttendeeIDs)

	_, err = NewAgendaEvent("e2", "creator", &api.AgendaPayload{DataInicio: timePtr(start)})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestAgendaEvent_Apply(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	e := &AgendaEvent{ID: "e1", Titulo: "Old", Local: "Sala 1", DataInicio: start}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		require.NoError(t, e.Apply(&api.AgendaPayload{Titulo: strPtr("New")}))
		assert.Equal(t, "New", e.Titulo)
		assert.Equal(t, "Sala 1", e.Local)
	})

	t.Run("attendees replaced", func(t *testing.T) {
		ids := []string{"u1", "u2"}
		require.NoError(t, e.Apply(&api.AgendaPayload{AttendeeIDs: &ids}))
		ids[0] = "changed"
		assert.Equal(t, []string{"u1", "u2"}, e.AttendeeIDs)
	})

	t.Run("dataFim before stored dataInicio", func(t *testing.T) {
		err := e.Apply(&api.AgendaPayload{DataFim: timePtr(start.Add(-time.Hour))})
		assert.ErrorIs(t, err, api.ErrValidation)
	})
}

func TestNewAttendeeNotification(t *testing.T) {
	e := &AgendaEvent{ID: "e1", Titulo: "Auditoria ISO"}
	n := NewAttendeeNotification("n1", "u1", e)

	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, NotificationTipoInfo, n.Tipo)
	assert.Equal(t, "Você foi adicionado ao evento: Auditoria ISO", n.Mensagem)
	assert.Equal(t, "/agenda?event=e1", n.LinkURL)
	assert.False(t, n.Lido)
}

func TestNewTempID(t *testing.T) {
	now := time.UnixMilli(1714554000000)
	id := NewTempID(now)

	assert.True(t, strings.HasPrefix(id, "temp_1714554000000_"))
	assert.Len(t, id, len("temp_1714554000000_")+8)
	assert.NotEqual(t, id, NewTempID(now))
}

func TestRooms(t *testing.T) {
	assert.Equal(t, "user:u1", UserRoom("u1"))
	assert.Equal(t, "role:admin", RoleRoom("admin"))
	assert.Equal(t, "project:p1", ProjectRoom("p1"))
}
