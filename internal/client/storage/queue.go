package storage

import (
	"context"

	"github.com/iudanet/sgisync/internal/models"
)

//go:generate moq -out queue_mock.go . QueueStorage

// QueueStorage долговременное хранилище очереди мутаций.
// Каждый метод выполняется в одной транзакции.
type QueueStorage interface {
	// AppendPending добавляет запись в конец очереди
	AppendPending(ctx context.Context, record models.MutationRecord) error

	// LoadPending возвращает очередь в порядке добавления
	LoadPending(ctx context.Context) ([]models.MutationRecord, error)

	// RemovePending удаляет записи с указанными clientTempId и возвращает число удаленных
	RemovePending(ctx context.Context, tempIDs []string) (int, error)
}
