package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage хранит watermark последней синхронизации
type MetadataStorage interface {
	// SaveWatermark сохраняет syncTimestamp из pull-response как есть
	SaveWatermark(ctx context.Context, watermark string) error

	// GetWatermark возвращает сохраненный watermark.
	// Пустая строка означает, что pull еще не выполнялся.
	GetWatermark(ctx context.Context) (string, error)
}
