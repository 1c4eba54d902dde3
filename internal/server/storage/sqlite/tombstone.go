package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/server/storage"
)

var _ storage.TombstoneStorage = (*Storage)(nil)

// FindDeletedSince returns tombstones with deletedAt > since.
// Общие отметки (без владельца) видны всем, личные только владельцу.
func (s *Storage) FindDeletedSince(ctx context.Context, identity models.Identity, since time.Time) ([]models.Tombstone, error) {
	query := `
		SELECT entity_kind, id, owner_id, deleted_at
		FROM tombstones
		WHERE deleted_at > ? AND (owner_id = '' OR owner_id = ?)
		ORDER BY deleted_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sinceToNanos(since), identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tombstones: %w", err)
	}
	defer rows.Close()

	var tombstones []models.Tombstone
	for rows.Next() {
		var t models.Tombstone
		var deletedAt int64
		if err := rows.Scan(&t.Kind, &t.ID, &t.OwnerID, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tombstone: %w", err)
		}
		t.DeletedAt = nanosToTime(deletedAt)
		tombstones = append(tombstones, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tombstones, nil
}

// PurgeTombstones удаляет отметки старше before.
// Клиенты с watermark старше before пропустят эти удаления.
func (s *Storage) PurgeTombstones(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tombstones WHERE deleted_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge tombstones: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

func (s *Storage) insertTombstone(ctx context.Context, tx *sql.Tx, kind, id, ownerID string, deletedAt time.Time) error {
	query := `
		INSERT INTO tombstones (entity_kind, id, owner_id, deleted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_kind, id) DO UPDATE SET deleted_at = excluded.deleted_at
	`
	if _, err := tx.ExecContext(ctx, query, kind, id, ownerID, deletedAt.UnixNano()); err != nil {
		return fmt.Errorf("failed to insert tombstone: %w", err)
	}
	return nil
}
