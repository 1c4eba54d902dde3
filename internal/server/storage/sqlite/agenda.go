package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/server/storage"
	"github.com/iudanet/sgisync/pkg/api"
)

// AgendaStore хранит события агенды. События видны всем участникам.
type AgendaStore struct {
	s *Storage
}

var _ storage.EntityStore = (*AgendaStore)(nil)

// Kind implements storage.EntityStore
func (a *AgendaStore) Kind() string {
	return api.KindAgenda
}

// FindChangedSince returns agenda events with lastSyncAt > since in ascending order
func (a *AgendaStore) FindChangedSince(ctx context.Context, _ models.Identity, since time.Time) ([]models.Record, error) {
	query := `
		SELECT id, project_id, data, sync_version, last_sync_at
		FROM agenda_events
		WHERE last_sync_at > ?
		ORDER BY last_sync_at ASC
	`

	rows, err := a.s.db.QueryContext(ctx, query, sinceToNanos(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query agenda events since timestamp: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		rec := models.Record{Kind: api.KindAgenda}
		var lastSyncAt int64
		var data []byte
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &data, &rec.SyncVersion, &lastSyncAt); err != nil {
			return nil, fmt.Errorf("failed to scan agenda event: %w", err)
		}
		rec.Data = data
		rec.LastSyncAt = nanosToTime(lastSyncAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// Get returns one agenda event by id
// Returns ErrEntityNotFound if event doesn't exist
func (a *AgendaStore) Get(ctx context.Context, id string) (*models.AgendaEvent, error) {
	var data []byte
	err := a.s.db.QueryRowContext(ctx, `SELECT data FROM agenda_events WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get agenda event: %w", err)
	}

	event := &models.AgendaEvent{}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agenda event: %w", err)
	}
	return event, nil
}

// ApplyMutation implements storage.EntityStore
func (a *AgendaStore) ApplyMutation(ctx context.Context, identity models.Identity, change *api.Change, payload api.Payload) (*models.Applied, error) {
	var applied *models.Applied

	err := a.s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		switch change.Action {
		case api.ActionCreate:
			applied, err = a.create(ctx, tx, identity, payload)
		case api.ActionUpdate:
			applied, err = a.update(ctx, tx, change, payload)
		case api.ActionDelete:
			applied, err = a.delete(ctx, tx, change)
		default:
			err = fmt.Errorf("%w: unknown action %q", api.ErrValidation, change.Action)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}

func (a *AgendaStore) create(ctx context.Context, tx *sql.Tx, identity models.Identity, payload api.Payload) (*models.Applied, error) {
	p, ok := payload.(*api.AgendaPayload)
	if !ok {
		return nil, fmt.Errorf("%w: agenda payload expected", api.ErrValidation)
	}

	event, err := models.NewAgendaEvent(uuid.New().String(), identity.UserID, p)
	if err != nil {
		return nil, err
	}

	now := a.s.clock.Now()
	event.SyncVersion = 1
	event.LastSyncAt = now
	event.CreatedAt = now

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agenda event: %w", err)
	}

	query := `
		INSERT INTO agenda_events (
			id, creator_id, project_id, data,
			sync_version, last_sync_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		event.ID,
		event.CreatorID,
		event.ProjectID,
		data,
		event.SyncVersion,
		now.UnixNano(),
		now.UnixNano(),
	); err != nil {
		return nil, fmt.Errorf("failed to insert agenda event: %w", err)
	}

	applied := &models.Applied{
		Action: api.ActionCreate,
		Record: agendaRecord(event, data),
	}

	// Каждому участнику - уведомление о добавлении в событие
	seen := make(map[string]struct{}, len(event.AttendeeIDs))
	for _, attendeeID := range event.AttendeeIDs {
		if attendeeID == "" {
			continue
		}
		if _, dup := seen[attendeeID]; dup {
			continue
		}
		seen[attendeeID] = struct{}{}

		n := models.NewAttendeeNotification(uuid.New().String(), attendeeID, event)
		rec, err := a.s.insertNotification(ctx, tx, n)
		if err != nil {
			return nil, err
		}
		applied.Derived = append(applied.Derived, *rec)
	}

	return applied, nil
}

func (a *AgendaStore) update(ctx context.Context, tx *sql.Tx, change *api.Change, payload api.Payload) (*models.Applied, error) {
	p, ok := payload.(*api.AgendaPayload)
	if !ok {
		return nil, fmt.Errorf("%w: agenda payload expected", api.ErrValidation)
	}

	event, err := a.lockedGet(ctx, tx, change)
	if err != nil {
		return nil, err
	}

	if err := event.Apply(p); err != nil {
		return nil, err
	}

	// Last write wins: версия растет, метка обновляется
	event.SyncVersion++
	event.LastSyncAt = a.s.clock.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agenda event: %w", err)
	}

	query := `
		UPDATE agenda_events
		SET project_id = ?, data = ?, sync_version = ?, last_sync_at = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, query,
		event.ProjectID,
		data,
		event.SyncVersion,
		event.LastSyncAt.UnixNano(),
		event.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to update agenda event: %w", err)
	}

	return &models.Applied{
		Action: api.ActionUpdate,
		Record: agendaRecord(event, data),
	}, nil
}

func (a *AgendaStore) delete(ctx context.Context, tx *sql.Tx, change *api.Change) (*models.Applied, error) {
	event, err := a.lockedGet(ctx, tx, change)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM agenda_events WHERE id = ?`, event.ID); err != nil {
		return nil, fmt.Errorf("failed to delete agenda event: %w", err)
	}

	deletedAt := a.s.clock.Now()
	if err := a.s.insertTombstone(ctx, tx, api.KindAgenda, event.ID, "", deletedAt); err != nil {
		return nil, err
	}

	return &models.Applied{
		Action: api.ActionDelete,
		Record: models.Record{
			Kind:        api.KindAgenda,
			ID:          event.ID,
			ProjectID:   event.ProjectID,
			SyncVersion: event.SyncVersion,
			LastSyncAt:  deletedAt,
		},
	}, nil
}

// lockedGet читает событие внутри транзакции и проверяет baseVersion
func (a *AgendaStore) lockedGet(ctx context.Context, tx *sql.Tx, change *api.Change) (*models.AgendaEvent, error) {
	var data []byte
	var version int64
	err := tx.QueryRowContext(ctx,
		`SELECT data, sync_version FROM agenda_events WHERE id = ?`, change.TargetID,
	).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agenda %s: %w", change.TargetID, storage.ErrEntityNotFound)
		}
		return nil, fmt.Errorf("failed to get agenda event: %w", err)
	}

	if change.BaseVersion != nil && *change.BaseVersion != version {
		return nil, fmt.Errorf("agenda %s at version %d, change based on %d: %w",
			change.TargetID, version, *change.BaseVersion, storage.ErrVersionConflict)
	}

	event := &models.AgendaEvent{}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agenda event: %w", err)
	}
	return event, nil
}

func agendaRecord(event *models.AgendaEvent, data []byte) models.Record {
	return models.Record{
		Kind:        api.KindAgenda,
		ID:          event.ID,
		ProjectID:   event.ProjectID,
		Data:        data,
		SyncVersion: event.SyncVersion,
		LastSyncAt:  event.LastSyncAt,
	}
}
