package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/sgisync/pkg/api"
)

// MutationRecord представляет локальную мутацию, ожидающую отправки на сервер.
// Создается, когда прямой запрос не удался или устройство offline.
// Удаляется только после подтверждения сервером в push-result.
type MutationRecord struct {
	EnqueuedAt   time.Time       `json:"enqueuedAt"`            // EnqueuedAt время постановки в очередь
	BaseVersion  *int64          `json:"baseVersion,omitempty"` // BaseVersion версия, на которой основано изменение
	EntityKind   string          `json:"entityKind"`            // EntityKind тип сущности: "agenda", "notification"
	Action       string          `json:"action"`                // Action действие: create, update, delete
	TargetID     string          `json:"targetId,omitempty"`    // TargetID ID сущности для update/delete
	ClientTempID string          `json:"clientTempId"`          // ClientTempID локальный идентификатор мутации
	Payload      json.RawMessage `json:"payload,omitempty"`     // Payload сырые JSON данные
}

// ToChange представление записи в push-request
func (m *MutationRecord) ToChange() api.Change {
	return api.Change{
		EnqueuedAt:   m.EnqueuedAt,
		BaseVersion:  m.BaseVersion,
		EntityKind:   m.EntityKind,
		Action:       m.Action,
		TargetID:     m.TargetID,
		ClientTempID: m.ClientTempID,
		Payload:      m.Payload,
	}
}

// NewTempID генерирует локальный идентификатор вида temp_<unix-millis>_<uuid-prefix>
func NewTempID(now time.Time) string {
	return fmt.Sprintf("temp_%d_%s", now.UnixMilli(), uuid.New().String()[:8])
}

// Identity аутентифицированный участник синхронизации
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Имена комнат fan-out
const (
	RoomAgendaAll     = "agenda:all"
	roomUserPrefix    = "user:"
	roomRolePrefix    = "role:"
	roomProjectPrefix = "project:"
)

// UserRoom комната конкретного пользователя
func UserRoom(userID string) string { return roomUserPrefix + userID }

// RoleRoom комната роли
func RoleRoom(role string) string { return roomRolePrefix + role }

// ProjectRoom комната проекта
func ProjectRoom(projectID string) string { return roomProjectPrefix + projectID }
