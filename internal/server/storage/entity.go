package storage

import (
	"context"
	"time"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/pkg/api"
)

//go:generate moq -out entity_mock.go . EntityStore TombstoneStorage

// EntityStore defines the persistence contract of one syncable entity kind
type EntityStore interface {
	// Kind returns the entityKind served by this store
	Kind() string

	// FindChangedSince returns records visible to identity with lastSyncAt > since,
	// ordered by lastSyncAt ascending. Zero since means "from the beginning".
	FindChangedSince(ctx context.Context, identity models.Identity, since time.Time) ([]models.Record, error)

	// ApplyMutation applies one validated change atomically.
	// Returns ErrEntityNotFound for a missing target and ErrVersionConflict when
	// change.BaseVersion is set and differs from the stored syncVersion.
	ApplyMutation(ctx context.Context, identity models.Identity, change *api.Change, payload api.Payload) (*models.Applied, error)
}

// TombstoneStorage defines access to deletion markers
type TombstoneStorage interface {
	// FindDeletedSince returns tombstones visible to identity with deletedAt > since
	FindDeletedSince(ctx context.Context, identity models.Identity, since time.Time) ([]models.Tombstone, error)
}
