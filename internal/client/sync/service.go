// Package sync связывает очередь мутаций, watermark, транспорт и шину событий клиента.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	httpClient "github.com/iudanet/sgisync/internal/client/api"
	"github.com/iudanet/sgisync/internal/client/events"
	"github.com/iudanet/sgisync/internal/client/queue"
	"github.com/iudanet/sgisync/internal/client/storage"
	"github.com/iudanet/sgisync/internal/clock"
	"github.com/iudanet/sgisync/pkg/api"
)

// Локальные события клиента
const (
	EventConnected    = "sync:connected"
	EventDisconnected = "sync:disconnected"
	EventQueued       = "sync:queued"
	EventPushResult   = "sync:push-result"
	EventPullComplete = "sync:pull-complete"
	EventSyncError    = string(api.MessageSyncError)

	// EventSynced суффикс "<kind>:synced" для сущностей из pull-response
	EventSynced = "synced"
)

//go:generate moq -out transport_mock.go . Transport
//go:generate moq -out mutation_api_mock.go . MutationAPI

// Transport канал до сервера
type Transport interface {
	Send(ctx context.Context, msgType api.MessageType, payload any) error
	IsConnected() bool
}

// MutationAPI прямой HTTP вызов для одной мутации
type MutationAPI interface {
	ApplyMutation(ctx context.Context, change api.Change) (*api.ChangeResult, error)
}

// Options настройки сервиса
type Options struct {
	// Scopes комнаты, на которые клиент подписывается при каждом соединении
	Scopes []string
}

// MutateResult результат Mutate
type MutateResult struct {
	// Result ответ сервера; nil, если мутация поставлена в очередь
	Result *api.ChangeResult
	TempID string
	Queued bool
}

// Service клиентский оркестратор синхронизации
type Service struct {
	logger    *slog.Logger
	queue     *queue.Queue
	metadata  storage.MetadataStorage
	transport Transport
	bus       events.Publisher
	api       MutationAPI
	online    func() bool
	now       func() time.Time
	scopes    []string
	// mu сериализует обработку событий соединения
	mu gosync.Mutex
}

// NewService создает сервис. По умолчанию online означает наличие соединения.
func NewService(
	logger *slog.Logger,
	q *queue.Queue,
	metadata storage.MetadataStorage,
	transport Transport,
	bus events.Publisher,
	mutationAPI MutationAPI,
	opts Options,
) *Service {
	return &Service{
		logger:    logger,
		queue:     q,
		metadata:  metadata,
		transport: transport,
		bus:       bus,
		api:       mutationAPI,
		online:    transport.IsConnected,
		now:       time.Now,
		scopes:    opts.Scopes,
	}
}

// WithOnlineCheck заменяет признак доступности сервера (например, монитором связи)
func (s *Service) WithOnlineCheck(online func() bool) *Service {
	s.online = online
	return s
}

// Mutate применяет мутацию. Online: прямой HTTP вызов, при сетевой ошибке мутация
// ставится в очередь. Offline: сразу в очередь. Отказ сервера (4xx) и локальная
// ошибка валидации возвращаются как ошибка, в очередь такие мутации не попадают.
func (s *Service) Mutate(
	ctx context.Context,
	kind, action string,
	payload json.RawMessage,
	targetID string,
	opts ...queue.EnqueueOption,
) (*MutateResult, error) {
	record := queue.NewRecord(s.now(), kind, action, payload, targetID, opts...)
	change := record.ToChange()

	if err := api.ValidateChange(&change); err != nil {
		return nil, err
	}
	if _, err := api.DecodePayload(kind, action, payload); err != nil {
		return nil, err
	}

	if s.online() {
		result, err := s.api.ApplyMutation(ctx, change)
		switch {
		case err == nil:
			return &MutateResult{Result: result, TempID: record.ClientTempID}, nil
		case !errors.Is(err, httpClient.ErrUnavailable):
			return &MutateResult{Result: result, TempID: record.ClientTempID}, err
		}
		s.logger.WarnContext(ctx, "Direct mutation failed, queueing",
			"temp_id", record.ClientTempID,
			"error", err,
		)
	}

	if err := s.queue.Append(ctx, record); err != nil {
		return nil, err
	}
	s.bus.Publish(EventQueued, record)

	if s.transport.IsConnected() {
		if err := s.Drain(ctx); err != nil {
			s.logger.WarnContext(ctx, "Drain after enqueue failed", "error", err)
		}
	}

	return &MutateResult{TempID: record.ClientTempID, Queued: true}, nil
}

// HandleConnected подписывается на комнаты, запрашивает изменения
// после сохраненного watermark и отправляет очередь
func (s *Service) HandleConnected(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, scope := range s.scopes {
		if err := s.transport.Send(ctx, api.MessageSubscribe, api.SubscribeRequest{Scope: scope}); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", scope, err)
		}
	}

	watermark, err := s.metadata.GetWatermark(ctx)
	if err != nil {
		return fmt.Errorf("failed to get watermark: %w", err)
	}
	if watermark != "" {
		if err := s.transport.Send(ctx, api.MessagePullRequest, api.PullRequest{Since: watermark}); err != nil {
			return fmt.Errorf("failed to request pull: %w", err)
		}
	}

	if err := s.Drain(ctx); err != nil {
		return err
	}

	s.bus.Publish(EventConnected, nil)
	return nil
}

// HandleDisconnected снимает отметку отправки очереди: ответ на нее уже не придет
func (s *Service) HandleDisconnected(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.Release()
	s.bus.Publish(EventDisconnected, nil)
}

// HandleMessage обрабатывает одно сообщение сервера
func (s *Service) HandleMessage(ctx context.Context, env api.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch env.Type {
	case api.MessagePullResponse:
		var resp api.PullResponse
		if err := env.Decode(&resp); err != nil {
			return err
		}
		return s.applyPull(ctx, &resp)

	case api.MessagePushResult:
		var result api.PushResult
		if err := env.Decode(&result); err != nil {
			return err
		}
		return s.acknowledgePush(ctx, &result, true)

	case api.MessageSyncError:
		var syncErr api.SyncError
		if err := env.Decode(&syncErr); err != nil {
			return err
		}
		s.logger.ErrorContext(ctx, "Server rejected request",
			"request_type", syncErr.RequestType,
			"message", syncErr.Message,
		)
		// Только ошибка push освобождает очередь: иначе ответ на снимок еще придет
		if syncErr.RequestType == api.MessagePushRequest {
			s.queue.Release()
		}
		s.bus.Publish(EventSyncError, syncErr)
		return nil

	default:
		s.bus.Publish(string(env.Type), env.Data)
		return nil
	}
}

// ApplyPull публикует изменения из ответа pull и сохраняет новый watermark.
// Используется и для ответа по HTTP.
func (s *Service) ApplyPull(ctx context.Context, resp *api.PullResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPull(ctx, resp)
}

// AcknowledgePush удаляет из очереди записи, на которые ответил сервер.
// Используется и для ответа по HTTP.
func (s *Service) AcknowledgePush(ctx context.Context, result *api.PushResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acknowledgePush(ctx, result, false)
}

func (s *Service) applyPull(ctx context.Context, resp *api.PullResponse) error {
	for i := range resp.Entities {
		e := &resp.Entities[i]
		s.bus.Publish(string(api.EventName(e.EntityKind, EventSynced)), *e)
	}
	for _, t := range resp.Deleted {
		s.bus.Publish(string(api.EventName(t.EntityKind, api.EventDeleted)), api.DeletedEvent{ID: t.ID})
	}

	if resp.SyncTimestamp != "" {
		if err := s.advanceWatermark(ctx, resp.SyncTimestamp); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "Pull applied",
		"entities", len(resp.Entities),
		"deleted", len(resp.Deleted),
		"watermark", resp.SyncTimestamp,
	)
	s.bus.Publish(EventPullComplete, *resp)
	return nil
}

// advanceWatermark сохраняет watermark, только если он позже текущего.
// Запоздавший pull-response не должен откатывать watermark назад.
func (s *Service) advanceWatermark(ctx context.Context, received string) error {
	if _, err := clock.Parse(received); err != nil {
		return err
	}

	current, err := s.metadata.GetWatermark(ctx)
	if err != nil {
		return err
	}
	if current != "" && !clock.Later(received, current) {
		s.logger.DebugContext(ctx, "Stale watermark ignored", "received", received, "current", current)
		return nil
	}

	if err := s.metadata.SaveWatermark(ctx, received); err != nil {
		return fmt.Errorf("failed to save watermark: %w", err)
	}
	return nil
}

func (s *Service) acknowledgePush(ctx context.Context, result *api.PushResult, redrain bool) error {
	removed, err := s.queue.Acknowledge(ctx, result.Results)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range result.Results {
		if !r.Success {
			failed++
			s.logger.WarnContext(ctx, "Queued mutation rejected",
				"temp_id", r.TempID,
				"code", r.Code,
				"error", r.Error,
			)
		}
	}
	s.logger.InfoContext(ctx, "Push acknowledged",
		"results", len(result.Results),
		"removed", removed,
		"failed", failed,
	)
	s.bus.Publish(EventPushResult, *result)

	// Записи, добавленные во время отправки, уходят следующим снимком
	if redrain && removed > 0 {
		if err := s.Drain(ctx); err != nil {
			s.logger.WarnContext(ctx, "Follow-up drain failed", "error", err)
		}
	}
	return nil
}

// RequestPull запрашивает изменения после сохраненного watermark
func (s *Service) RequestPull(ctx context.Context) error {
	watermark, err := s.metadata.GetWatermark(ctx)
	if err != nil {
		return fmt.Errorf("failed to get watermark: %w", err)
	}
	return s.transport.Send(ctx, api.MessagePullRequest, api.PullRequest{Since: watermark})
}

// Drain отправляет очередь по открытому соединению. Без соединения ничего не делает.
func (s *Service) Drain(ctx context.Context) error {
	if !s.transport.IsConnected() {
		return nil
	}
	return s.queue.Drain(ctx, pushFunc(func(ctx context.Context, changes []api.Change) error {
		return s.transport.Send(ctx, api.MessagePushRequest, api.PushRequest{Changes: changes})
	}))
}

// UpdatePresence сообщает остальным участникам, что сейчас открыто
func (s *Service) UpdatePresence(ctx context.Context, view, entityID string) error {
	return s.transport.Send(ctx, api.MessagePresenceUpdate, api.PresenceUpdate{View: view, EntityID: entityID})
}

// PendingCount число мутаций в очереди
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	return s.queue.PendingCount(ctx)
}

// Watermark сохраненный watermark
func (s *Service) Watermark(ctx context.Context) (string, error) {
	return s.metadata.GetWatermark(ctx)
}

// pushFunc адаптер функции к queue.Pusher
type pushFunc func(ctx context.Context, changes []api.Change) error

func (f pushFunc) Push(ctx context.Context, changes []api.Change) error {
	return f(ctx, changes)
}
