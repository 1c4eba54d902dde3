// Package queue хранит мутации, которые не удалось отправить сразу,
// и отправляет их пакетом при восстановлении связи.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/sgisync/internal/client/storage"
	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/pkg/api"
)

//go:generate moq -out pusher_mock.go . Pusher

// Pusher отправляет пакет мутаций на сервер.
// Ответ (push-result) приходит асинхронно и передается в Acknowledge.
type Pusher interface {
	Push(ctx context.Context, changes []api.Change) error
}

// EnqueueOption дополнительные параметры записи
type EnqueueOption func(*models.MutationRecord)

// WithBaseVersion фиксирует версию, на которой основано изменение
func WithBaseVersion(version int64) EnqueueOption {
	return func(r *models.MutationRecord) {
		r.BaseVersion = &version
	}
}

// Queue очередь мутаций. Записи удаляются только после ответа сервера.
type Queue struct {
	store  storage.QueueStorage
	logger *slog.Logger
	now    func() time.Time
	// inFlight clientTempId отправленного снимка; nil - отправки нет
	inFlight map[string]struct{}
	mu       sync.Mutex
}

// New создает очередь поверх хранилища
func New(store storage.QueueStorage, logger *slog.Logger) *Queue {
	return &Queue{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// NewRecord собирает запись мутации с новым clientTempId
func NewRecord(
	now time.Time,
	kind, action string,
	payload json.RawMessage,
	targetID string,
	opts ...EnqueueOption,
) models.MutationRecord {
	now = now.UTC()
	record := models.MutationRecord{
		EnqueuedAt:   now,
		EntityKind:   kind,
		Action:       action,
		TargetID:     targetID,
		ClientTempID: models.NewTempID(now),
		Payload:      payload,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// Enqueue добавляет мутацию в конец очереди и возвращает ее clientTempId.
// Запись сохранена на диск к моменту возврата.
func (q *Queue) Enqueue(
	ctx context.Context,
	kind, action string,
	payload json.RawMessage,
	targetID string,
	opts ...EnqueueOption,
) (string, error) {
	record := NewRecord(q.now(), kind, action, payload, targetID, opts...)
	if err := q.Append(ctx, record); err != nil {
		return "", err
	}
	return record.ClientTempID, nil
}

// Append добавляет готовую запись, сохраняя ее clientTempId
func (q *Queue) Append(ctx context.Context, record models.MutationRecord) error {
	if err := q.store.AppendPending(ctx, record); err != nil {
		return fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	q.logger.DebugContext(ctx, "Mutation enqueued",
		"temp_id", record.ClientTempID,
		"entity_kind", record.EntityKind,
		"action", record.Action,
	)
	return nil
}

// Drain отправляет снимок всех ожидающих записей через p.
// Если отправка уже идет, вызов ничего не делает.
// Если p вернул ошибку, очередь не меняется и отметка отправки снимается.
func (q *Queue) Drain(ctx context.Context, p Pusher) error {
	q.mu.Lock()
	if q.inFlight != nil {
		q.mu.Unlock()
		q.logger.DebugContext(ctx, "Drain already in flight")
		return nil
	}

	records, err := q.store.LoadPending(ctx)
	if err != nil {
		q.mu.Unlock()
		return fmt.Errorf("failed to load pending changes: %w", err)
	}
	if len(records) == 0 {
		q.mu.Unlock()
		return nil
	}

	q.inFlight = make(map[string]struct{}, len(records))
	changes := make([]api.Change, 0, len(records))
	for i := range records {
		q.inFlight[records[i].ClientTempID] = struct{}{}
		changes = append(changes, records[i].ToChange())
	}
	q.mu.Unlock()

	if err := p.Push(ctx, changes); err != nil {
		q.Release()
		return fmt.Errorf("failed to push pending changes: %w", err)
	}

	q.logger.InfoContext(ctx, "Pending changes pushed", "count", len(changes))
	return nil
}

// Acknowledge удаляет записи, на которые сервер ответил (успешно или окончательной ошибкой),
// и снимает отметку отправки. Записи, добавленные после снимка, остаются в очереди.
func (q *Queue) Acknowledge(ctx context.Context, results []api.ChangeResult) (int, error) {
	tempIDs := make([]string, 0, len(results))
	for _, r := range results {
		if r.TempID != "" {
			tempIDs = append(tempIDs, r.TempID)
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.inFlight = nil

	removed, err := q.store.RemovePending(ctx, tempIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to remove acknowledged changes: %w", err)
	}

	q.logger.DebugContext(ctx, "Pending changes acknowledged",
		"results", len(results),
		"removed", removed,
	)
	return removed, nil
}

// Release снимает отметку отправки, ничего не удаляя
func (q *Queue) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight = nil
}

// InFlight сообщает, ожидает ли очередь ответа сервера
func (q *Queue) InFlight() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight != nil
}

// PendingCount число записей в очереди
func (q *Queue) PendingCount(ctx context.Context) (int, error) {
	records, err := q.store.LoadPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending changes: %w", err)
	}
	return len(records), nil
}

// Pending записи очереди в порядке добавления
func (q *Queue) Pending(ctx context.Context) ([]models.MutationRecord, error) {
	records, err := q.store.LoadPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending changes: %w", err)
	}
	return records, nil
}
