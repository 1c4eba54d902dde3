package storage

import "context"

// AuthStorage хранит bearer-токен клиента
type AuthStorage interface {
	// SaveToken сохраняет токен
	SaveToken(ctx context.Context, token string) error

	// GetToken возвращает токен или ErrAuthNotFound
	GetToken(ctx context.Context) (string, error)

	// DeleteToken удаляет токен (logout)
	DeleteToken(ctx context.Context) error
}
