package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/sgisync/internal/client/storage"
	"github.com/iudanet/sgisync/internal/models"
)

// Очередь хранится одним JSON массивом под ключом pending_changes
var keyPendingChanges = []byte("pending_changes")

var _ storage.QueueStorage = (*Storage)(nil)

// AppendPending добавляет запись в конец очереди
func (s *Storage) AppendPending(ctx context.Context, record models.MutationRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := syncBucket(tx)
		if err != nil {
			return err
		}

		records, err := readPending(bucket)
		if err != nil {
			return err
		}
		records = append(records, record)

		return writePending(bucket, records)
	})
}

// LoadPending возвращает очередь в порядке добавления
func (s *Storage) LoadPending(ctx context.Context) ([]models.MutationRecord, error) {
	var records []models.MutationRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := syncBucket(tx)
		if err != nil {
			return err
		}
		records, err = readPending(bucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// RemovePending удаляет записи с указанными clientTempId
func (s *Storage) RemovePending(ctx context.Context, tempIDs []string) (int, error) {
	if len(tempIDs) == 0 {
		return 0, nil
	}

	remove := make(map[string]struct{}, len(tempIDs))
	for _, id := range tempIDs {
		remove[id] = struct{}{}
	}

	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := syncBucket(tx)
		if err != nil {
			return err
		}

		records, err := readPending(bucket)
		if err != nil {
			return err
		}

		kept := records[:0]
		for _, r := range records {
			if _, ok := remove[r.ClientTempID]; ok {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		if removed == 0 {
			return nil
		}

		return writePending(bucket, kept)
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

func syncBucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bucket := tx.Bucket(bucketSync)
	if bucket == nil {
		return nil, fmt.Errorf("sync bucket not found")
	}
	return bucket, nil
}

func readPending(bucket *bbolt.Bucket) ([]models.MutationRecord, error) {
	data := bucket.Get(keyPendingChanges)
	if data == nil {
		return []models.MutationRecord{}, nil
	}

	var records []models.MutationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending changes: %w", err)
	}
	return records, nil
}

func writePending(bucket *bbolt.Bucket, records []models.MutationRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal pending changes: %w", err)
	}
	if err := bucket.Put(keyPendingChanges, data); err != nil {
		return fmt.Errorf("failed to save pending changes: %w", err)
	}
	return nil
}
