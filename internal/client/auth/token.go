// Package auth выбирает bearer-токен клиента: из конфигурации,
// из локального хранилища или из интерактивного ввода.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/sgisync/internal/client/iocli"
	"github.com/iudanet/sgisync/internal/client/storage"
)

// ErrNoToken токен не задан, не сохранен и не может быть запрошен
var ErrNoToken = errors.New("no bearer token: set token in config or run 'sgisync-client login'")

// TokenService хранит и находит bearer-токен
type TokenService struct {
	storage storage.AuthStorage
	io      iocli.IO
}

// NewTokenService создает сервис токена
func NewTokenService(store storage.AuthStorage, io iocli.IO) *TokenService {
	return &TokenService{
		storage: store,
		io:      io,
	}
}

// Resolve возвращает токен в порядке приоритета: configured, сохраненный,
// ввод без эха (только если ввод - терминал). Введенный токен сохраняется.
func (s *TokenService) Resolve(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	token, err := s.storage.GetToken(ctx)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return "", fmt.Errorf("failed to load token: %w", err)
	}

	if !s.io.IsInteractive() {
		return "", ErrNoToken
	}
	return s.Prompt(ctx)
}

// Prompt запрашивает токен у пользователя и сохраняет его
func (s *TokenService) Prompt(ctx context.Context) (string, error) {
	token, err := s.io.ReadPassword("Bearer token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if err := s.Save(ctx, token); err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// Save сохраняет токен для следующих запусков
func (s *TokenService) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}
	if err := s.storage.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Forget удаляет сохраненный токен
func (s *TokenService) Forget(ctx context.Context) error {
	if err := s.storage.DeleteToken(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// IsStored сообщает, есть ли сохраненный токен
func (s *TokenService) IsStored(ctx context.Context) (bool, error) {
	_, err := s.storage.GetToken(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load token: %w", err)
	}
	return true, nil
}
