package models

import (
	"encoding/json"
	"time"

	"github.com/iudanet/sgisync/pkg/api"
)

// Record запись хранилища в виде, общем для всех синхронизируемых типов
type Record struct {
	LastSyncAt  time.Time       // LastSyncAt метка для watermark-запросов
	Kind        string          // Kind тип сущности
	ID          string          // ID идентификатор
	OwnerID     string          // OwnerID владелец для user-scoped типов (пусто для общих)
	ProjectID   string          // ProjectID проект (пусто, если не задан)
	Data        json.RawMessage // Data полное JSON представление сущности
	SyncVersion int64           // SyncVersion версия
}

// ToAPI преобразует запись в формат протокола
func (r *Record) ToAPI() api.Entity {
	return api.Entity{
		EntityKind:  r.Kind,
		ID:          r.ID,
		SyncVersion: r.SyncVersion,
		LastSyncAt:  r.LastSyncAt,
		Data:        r.Data,
	}
}

// Tombstone отметка об удаленной сущности
type Tombstone struct {
	DeletedAt time.Time
	Kind      string
	ID        string
	OwnerID   string
}

// ToAPI преобразует отметку в формат протокола
func (t *Tombstone) ToAPI() api.Tombstone {
	return api.Tombstone{EntityKind: t.Kind, ID: t.ID, DeletedAt: t.DeletedAt}
}

// Applied результат применения одной мутации хранилищем
type Applied struct {
	Action  string   // Action выполненное действие
	Record  Record   // Record состояние после мутации (для delete только Kind, ID, OwnerID, ProjectID)
	Derived []Record // Derived записи, созданные побочно (уведомления участникам)
}
