package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType имя сообщения в протоколе синхронизации
type MessageType string

// Служебные сообщения протокола
const (
	MessageSubscribe       MessageType = "subscribe"
	MessagePullRequest     MessageType = "pull-request"
	MessagePullResponse    MessageType = "pull-response"
	MessagePushRequest     MessageType = "push-request"
	MessagePushResult      MessageType = "push-result"
	MessagePresenceUpdate  MessageType = "presence:update"
	MessagePresenceUpdated MessageType = "presence:updated"
	MessagePresenceLeft    MessageType = "presence:left"
	MessageSyncError       MessageType = "sync:error"
)

// Суффиксы доменных событий: "<entityKind>:<event>"
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
	EventNew     = "new"
)

// EventName собирает имя доменного события, например "agenda:created".
func EventName(entityKind, event string) MessageType {
	return MessageType(entityKind + ":" + event)
}

// Envelope конверт одного сообщения в websocket-канале
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope упаковывает payload в конверт
func NewEnvelope(msgType MessageType, payload any) (Envelope, error) {
	env := Envelope{Type: msgType}
	if payload == nil {
		return env, nil
	}
	if raw, ok := payload.(json.RawMessage); ok {
		env.Data = raw
		return env, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
	}
	env.Data = data
	return env, nil
}

// Decode разбирает данные конверта в v
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: %s has no data", ErrMalformedMessage, e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedMessage, e.Type, err)
	}
	return nil
}

// SubscribeRequest запрос на вступление в комнату.
// Пустой scope означает общую ленту agenda:all.
type SubscribeRequest struct {
	Scope string `json:"scope"`
}

// PullRequest запрос изменений после watermark.
// Пустой Since означает "с самого начала".
type PullRequest struct {
	Since string `json:"since"`
}

// Entity серверное представление синхронизируемой записи
type Entity struct {
	LastSyncAt  time.Time       `json:"lastSyncAt"`
	EntityKind  string          `json:"entityKind"`
	ID          string          `json:"id"`
	Data        json.RawMessage `json:"data"`
	SyncVersion int64           `json:"syncVersion"`
}

// Tombstone отметка об удалении записи
type Tombstone struct {
	DeletedAt  time.Time `json:"deletedAt"`
	EntityKind string    `json:"entityKind"`
	ID         string    `json:"id"`
}

// PullResponse ответ на pull-request
type PullResponse struct {
	SyncTimestamp string      `json:"syncTimestamp"` // Новый watermark (RFC3339Nano, UTC)
	Entities      []Entity    `json:"entities"`      // Изменения по возрастанию lastSyncAt
	Deleted       []Tombstone `json:"deleted"`       // Удаления после since
}

// Change одна локальная мутация, отправляемая на сервер
type Change struct {
	EnqueuedAt   time.Time       `json:"enqueuedAt"`
	BaseVersion  *int64          `json:"baseVersion,omitempty"`
	EntityKind   string          `json:"entityKind"`
	Action       string          `json:"action"`
	TargetID     string          `json:"targetId,omitempty"`
	ClientTempID string          `json:"clientTempId"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// PushRequest пакет локальных мутаций
type PushRequest struct {
	Changes []Change `json:"changes"`
}

// Коды ошибок в ChangeResult
const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeInternal   = "internal"
)

// ChangeResult результат применения одной мутации
type ChangeResult struct {
	Entity   *Entity `json:"entity,omitempty"`
	TempID   string  `json:"tempId"`
	ID       string  `json:"id,omitempty"`
	ServerID string  `json:"serverId,omitempty"` // Присвоенный сервером ID для create
	Error    string  `json:"error,omitempty"`
	Code     string  `json:"code,omitempty"`
	Success  bool    `json:"success"`
}

// PushResult ответ на push-request, по одному результату на мутацию
type PushResult struct {
	SyncTimestamp string         `json:"syncTimestamp"`
	Results       []ChangeResult `json:"results"`
}

// PresenceUpdate сообщение клиента о том, что он сейчас смотрит
type PresenceUpdate struct {
	View     string `json:"view"`
	EntityID string `json:"entityId,omitempty"`
}

// PresenceUpdated рассылка presence остальным участникам
type PresenceUpdated struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId"`
	View      string    `json:"view"`
	EntityID  string    `json:"entityId,omitempty"`
}

// PresenceLeft рассылка при отключении участника
type PresenceLeft struct {
	UserID string `json:"userId"`
}

// SyncError ошибка обработки входящего сообщения
type SyncError struct {
	Message     string      `json:"message"`
	RequestType MessageType `json:"requestType,omitempty"`
}

// DeletedEvent payload события "<kind>:deleted"
type DeletedEvent struct {
	ID string `json:"id"`
}
