package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/server/storage"
	"github.com/iudanet/sgisync/pkg/api"
)

// NotificationStore хранит уведомления. Каждый пользователь видит только свои.
type NotificationStore struct {
	s *Storage
}

var _ storage.EntityStore = (*NotificationStore)(nil)

// Kind implements storage.EntityStore
func (n *NotificationStore) Kind() string {
	return api.KindNotification
}

// FindChangedSince returns the caller's notifications with lastSyncAt > since
func (n *NotificationStore) FindChangedSince(ctx context.Context, identity models.Identity, since time.Time) ([]models.Record, error) {
	query := `
		SELECT id, user_id, data, sync_version, last_sync_at
		FROM notifications
		WHERE user_id = ? AND last_sync_at > ?
		ORDER BY last_sync_at ASC
	`

	rows, err := n.s.db.QueryContext(ctx, query, identity.UserID, sinceToNanos(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications since timestamp: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		rec := models.Record{Kind: api.KindNotification}
		var lastSyncAt int64
		var data []byte
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &data, &rec.SyncVersion, &lastSyncAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
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

// ApplyMutation implements storage.EntityStore.
// Клиент может только отметить свое уведомление прочитанным.
func (n *NotificationStore) ApplyMutation(ctx context.Context, identity models.Identity, change *api.Change, payload api.Payload) (*models.Applied, error) {
	if change.Action != api.ActionUpdate {
		return nil, fmt.Errorf("%w: notification supports only %s", api.ErrValidation, api.ActionUpdate)
	}
	p, ok := payload.(*api.NotificationPayload)
	if !ok || p.Lido == nil {
		return nil, fmt.Errorf("%w: notification payload expected", api.ErrValidation)
	}

	var applied *models.Applied
	err := n.s.withTx(ctx, func(tx *sql.Tx) error {
		var data []byte
		var version int64
		err := tx.QueryRowContext(ctx,
			`SELECT data, sync_version FROM notifications WHERE id = ? AND user_id = ?`,
			change.TargetID, identity.UserID,
		).Scan(&data, &version)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("notification %s: %w", change.TargetID, storage.ErrEntityNotFound)
			}
			return fmt.Errorf("failed to get notification: %w", err)
		}

		if change.BaseVersion != nil && *change.BaseVersion != version {
			return fmt.Errorf("notification %s at version %d, change based on %d: %w",
				change.TargetID, version, *change.BaseVersion, storage.ErrVersionConflict)
		}

		notification := &models.Notification{}
		if err := json.Unmarshal(data, notification); err != nil {
			return fmt.Errorf("failed to unmarshal notification: %w", err)
		}

		notification.Lido = *p.Lido
		notification.SyncVersion++
		notification.LastSyncAt = n.s.clock.Now()

		data, err = json.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to marshal notification: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE notifications SET data = ?, sync_version = ?, last_sync_at = ? WHERE id = ?`,
			data, notification.SyncVersion, notification.LastSyncAt.UnixNano(), notification.ID,
		); err != nil {
			return fmt.Errorf("failed to update notification: %w", err)
		}

		applied = &models.Applied{
			Action: api.ActionUpdate,
			Record: notificationRecord(notification, data),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}

// insertNotification создает уведомление внутри транзакции вызывающего
func (s *Storage) insertNotification(ctx context.Context, tx *sql.Tx, notification *models.Notification) (*models.Record, error) {
	now := s.clock.Now()
	notification.SyncVersion = 1
	notification.LastSyncAt = now
	notification.CreatedAt = now

	data, err := json.Marshal(notification)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, data, sync_version, last_sync_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		data,
		notification.SyncVersion,
		now.UnixNano(),
		now.UnixNano(),
	); err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	rec := notificationRecord(notification, data)
	return &rec, nil
}

func notificationRecord(notification *models.Notification, data []byte) models.Record {
	return models.Record{
		Kind:        api.KindNotification,
		ID:          notification.ID,
		OwnerID:     notification.UserID,
		Data:        data,
		SyncVersion: notification.SyncVersion,
		LastSyncAt:  notification.LastSyncAt,
	}
}
