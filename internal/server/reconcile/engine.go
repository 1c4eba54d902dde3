// Package reconcile применяет мутации клиентов и отвечает на запросы
// "изменения после watermark".
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/sgisync/internal/clock"
	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/server/metrics"
	"github.com/iudanet/sgisync/internal/server/storage"
	"github.com/iudanet/sgisync/pkg/api"
)

//go:generate moq -out broadcaster_mock.go . Broadcaster

// Broadcaster рассылает примененные изменения подключенным клиентам
type Broadcaster interface {
	Broadcast(event api.MessageType, payload any, scopes ...string)
}

// Config настройки движка
type Config struct {
	// StrictVersions включает проверку baseVersion: устаревшая мутация
	// отклоняется как конфликт. По умолчанию last write wins.
	StrictVersions bool
}

// Engine применяет мутации и собирает изменения после watermark
type Engine struct {
	broadcaster Broadcaster
	tombstones  storage.TombstoneStorage
	logger      *slog.Logger
	metrics     *metrics.Metrics
	clock       *clock.Clock
	stores      map[string]storage.EntityStore
	order       []string
	cfg         Config
	// pullGate: мутации держат RLock, pull держит Lock на время запросов
	// и фиксации нового watermark, чтобы ни одна запись не получила
	// метку раньше watermark, будучи невидимой для запроса.
	pullGate sync.RWMutex
}

// New создает движок. Часы должны быть теми же, которыми хранилища метят изменения.
func New(
	cfg Config,
	c *clock.Clock,
	tombstones storage.TombstoneStorage,
	broadcaster Broadcaster,
	logger *slog.Logger,
	m *metrics.Metrics,
	stores ...storage.EntityStore,
) *Engine {
	e := &Engine{
		cfg:         cfg,
		clock:       c,
		tombstones:  tombstones,
		broadcaster: broadcaster,
		logger:      logger,
		metrics:     m,
		stores:      make(map[string]storage.EntityStore, len(stores)),
	}
	for _, s := range stores {
		e.stores[s.Kind()] = s
		e.order = append(e.order, s.Kind())
	}
	return e
}

// PullSince возвращает изменения, видимые identity, после watermark.
// Пустой watermark означает "с самого начала"; неразбираемый - ошибка валидации.
func (e *Engine) PullSince(ctx context.Context, identity models.Identity, watermark string) (*api.PullResponse, error) {
	since, err := clock.Parse(watermark)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrValidation, err)
	}

	start := time.Now()
	defer func() { e.metrics.ObservePull(time.Since(start)) }()

	e.pullGate.Lock()
	var records []models.Record
	for _, kind := range e.order {
		found, err := e.stores[kind].FindChangedSince(ctx, identity, since)
		if err != nil {
			e.pullGate.Unlock()
			return nil, fmt.Errorf("failed to pull %s changes: %w", kind, err)
		}
		records = append(records, found...)
	}

	var tombstones []models.Tombstone
	if e.tombstones != nil {
		tombstones, err = e.tombstones.FindDeletedSince(ctx, identity, since)
		if err != nil {
			e.pullGate.Unlock()
			return nil, fmt.Errorf("failed to pull deletions: %w", err)
		}
	}

	// Watermark фиксируется после запросов
	now := e.clock.Now()
	e.pullGate.Unlock()

	newWatermark := now
	if since.After(now) {
		newWatermark = since
	}

	slices.SortStableFunc(records, func(a, b models.Record) int {
		return a.LastSyncAt.Compare(b.LastSyncAt)
	})

	resp := &api.PullResponse{
		Entities:      make([]api.Entity, 0, len(records)),
		Deleted:       make([]api.Tombstone, 0, len(tombstones)),
		SyncTimestamp: clock.Format(newWatermark),
	}
	for i := range records {
		resp.Entities = append(resp.Entities, records[i].ToAPI())
	}
	for i := range tombstones {
		resp.Deleted = append(resp.Deleted, tombstones[i].ToAPI())
	}

	e.logger.DebugContext(ctx, "Pull served",
		"user_id", identity.UserID,
		"since", watermark,
		"entities", len(resp.Entities),
		"deleted", len(resp.Deleted),
		"sync_timestamp", resp.SyncTimestamp,
	)

	return resp, nil
}

// ApplyPushedChange применяет одну мутацию и сразу рассылает результат.
// Ошибка никогда не возвращается наружу: она отражается в результате.
func (e *Engine) ApplyPushedChange(ctx context.Context, identity models.Identity, change api.Change) api.ChangeResult {
	result := api.ChangeResult{
		TempID: change.ClientTempID,
		ID:     change.TargetID,
	}

	applied, err := e.apply(ctx, identity, &change)
	if err != nil {
		result.Error = err.Error()
		result.Code = errorCode(err)
		e.metrics.ChangeApplied(change.EntityKind, change.Action, outcome(err))

		if result.Code == api.CodeInternal {
			e.logger.ErrorContext(ctx, "Failed to apply change",
				"user_id", identity.UserID,
				"entity_kind", change.EntityKind,
				"action", change.Action,
				"temp_id", change.ClientTempID,
				"error", err,
			)
		} else {
			e.logger.InfoContext(ctx, "Change rejected",
				"user_id", identity.UserID,
				"entity_kind", change.EntityKind,
				"action", change.Action,
				"temp_id", change.ClientTempID,
				"error", err,
			)
		}
		return result
	}

	e.metrics.ChangeApplied(change.EntityKind, change.Action, metrics.OutcomeApplied)
	e.publish(applied)

	result.Success = true
	result.ID = applied.Record.ID
	if applied.Action == api.ActionCreate {
		result.ServerID = applied.Record.ID
	}
	if applied.Action != api.ActionDelete {
		entity := applied.Record.ToAPI()
		result.Entity = &entity
	}
	return result
}

// ApplyBatch применяет мутации последовательно; каждая атомарна сама по себе,
// частичный успех отражается поэлементно.
func (e *Engine) ApplyBatch(ctx context.Context, identity models.Identity, changes []api.Change) *api.PushResult {
	results := make([]api.ChangeResult, 0, len(changes))
	for _, change := range changes {
		results = append(results, e.ApplyPushedChange(ctx, identity, change))
	}

	return &api.PushResult{
		Results:       results,
		SyncTimestamp: clock.Format(e.clock.Now()),
	}
}

func (e *Engine) apply(ctx context.Context, identity models.Identity, change *api.Change) (*models.Applied, error) {
	if err := api.ValidateChange(change); err != nil {
		return nil, err
	}

	store, ok := e.stores[change.EntityKind]
	if !ok {
		return nil, fmt.Errorf("%w: entityKind %q is not syncable", api.ErrValidation, change.EntityKind)
	}

	payload, err := api.DecodePayload(change.EntityKind, change.Action, change.Payload)
	if err != nil {
		return nil, err
	}

	if !e.cfg.StrictVersions {
		change.BaseVersion = nil
	}

	e.pullGate.RLock()
	defer e.pullGate.RUnlock()

	return store.ApplyMutation(ctx, identity, change, payload)
}

// publish рассылает событие о примененной мутации и производных записях
func (e *Engine) publish(applied *models.Applied) {
	if e.broadcaster == nil {
		return
	}

	rec := applied.Record
	switch applied.Action {
	case api.ActionCreate:
		e.broadcaster.Broadcast(api.EventName(rec.Kind, api.EventCreated), rec.Data, e.scopes(rec)...)
	case api.ActionUpdate:
		e.broadcaster.Broadcast(api.EventName(rec.Kind, api.EventUpdated), rec.Data, e.scopes(rec)...)
	case api.ActionDelete:
		e.broadcaster.Broadcast(api.EventName(rec.Kind, api.EventDeleted), api.DeletedEvent{ID: rec.ID}, e.scopes(rec)...)
	}

	for _, derived := range applied.Derived {
		e.broadcaster.Broadcast(api.EventName(derived.Kind, api.EventNew), derived.Data, e.scopes(derived)...)
	}
}

// scopes: личные записи идут в комнату владельца, общие - всем.
// ProjectID не сужает рассылку: подписчики комнаты проекта получают событие как все.
func (e *Engine) scopes(rec models.Record) []string {
	if rec.OwnerID != "" {
		return []string{models.UserRoom(rec.OwnerID)}
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, api.ErrValidation):
		return api.CodeValidation
	case errors.Is(err, storage.ErrEntityNotFound):
		return api.CodeNotFound
	case errors.Is(err, storage.ErrVersionConflict):
		return api.CodeConflict
	default:
		return api.CodeInternal
	}
}

func outcome(err error) string {
	switch errorCode(err) {
	case api.CodeValidation:
		return metrics.OutcomeValidation
	case api.CodeNotFound:
		return metrics.OutcomeNotFound
	case api.CodeConflict:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
