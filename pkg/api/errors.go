package api

import "errors"

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// ErrMalformedMessage indicates that an incoming envelope could not be decoded
var ErrMalformedMessage = errors.New("malformed message")

// HealthResponse ответ GET /health
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	Connections int    `json:"connections"`
}
