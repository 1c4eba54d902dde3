package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/sgisync/internal/client/storage"
)

var keyLastSync = []byte("last_sync")

var _ storage.MetadataStorage = (*Storage)(nil)

// SaveWatermark сохраняет watermark последней синхронизации
func (s *Storage) SaveWatermark(ctx context.Context, watermark string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := syncBucket(tx)
		if err != nil {
			return err
		}

		if err := bucket.Put(keyLastSync, []byte(watermark)); err != nil {
			return fmt.Errorf("failed to save watermark: %w", err)
		}
		return nil
	})
}

// GetWatermark возвращает watermark или пустую строку, если синхронизации еще не было
func (s *Storage) GetWatermark(ctx context.Context) (string, error) {
	var watermark string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := syncBucket(tx)
		if err != nil {
			return err
		}
		watermark = string(bucket.Get(keyLastSync))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get watermark: %w", err)
	}

	return watermark, nil
}
