// Package auth проверяет и выпускает bearer-токены участников синхронизации.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/internal/validation"
)

// Issuer значение claim iss
const Issuer = "sgisync"

var (
	// ErrMissingCredential indicates that the request carries no bearer token
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential indicates that the bearer token is malformed, expired or forged
	ErrInvalidCredential = errors.New("invalid credential")
)

//go:generate moq -out verifier_mock.go . Verifier

// Verifier проверяет bearer credential и возвращает участника
type Verifier interface {
	VerifyCredential(token string) (*models.Identity, error)
}

// Claims представляет JWT claims участника синхронизации
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig содержит конфигурацию для JWT
type JWTConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

// JWT проверяет и выпускает токены HS256
type JWT struct {
	cfg JWTConfig
	now func() time.Time
}

var _ Verifier = (*JWT)(nil)

// NewJWT создает сервис токенов
func NewJWT(cfg JWTConfig) *JWT {
	return &JWT{cfg: cfg, now: time.Now}
}

// IssueToken создает новый токен для пользователя и роли
func (j *JWT) IssueToken(userID, role string) (string, time.Time, error) {
	if err := validation.ValidateID("user id", userID); err != nil {
		return "", time.Time{}, err
	}
	if role != "" {
		if err := validation.ValidateID("role", role); err != nil {
			return "", time.Time{}, err
		}
	}

	now := j.now()
	expiresAt := now.Add(j.cfg.TokenTTL)

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// VerifyCredential валидирует токен и возвращает участника
func (j *JWT) VerifyCredential(tokenString string) (*models.Identity, error) {
	if tokenString == "" {
		return nil, ErrMissingCredential
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.cfg.Secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidCredential
	}

	return &models.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// BearerFromRequest извлекает токен из "Authorization: Bearer <t>"
// или, если заголовка нет, из query-параметра token (браузерный websocket
// не умеет задавать заголовки).
func BearerFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, nil
		}
		return "", ErrMissingCredential
	}

	// Ожидаем формат: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("%w: invalid authorization header format", ErrInvalidCredential)
	}

	return parts[1], nil
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity кладет участника в контекст
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext достает участника из контекста
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
