// Package api HTTP клиент сервера синхронизации: прямые мутации, pull и health.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/sgisync/pkg/api"
)

// ErrUnavailable сервер недоступен: сетевая ошибка или ответ 5xx.
// Мутация с такой ошибкой ставится в очередь.
var ErrUnavailable = errors.New("server unavailable")

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap позволяет проверить 5xx через errors.Is(err, ErrUnavailable)
func (e *StatusError) Unwrap() error {
	if e.StatusCode >= http.StatusInternalServerError {
		return ErrUnavailable
	}
	return nil
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// ApplyMutation отправляет одну мутацию POST /api/v1/mutations.
// При отказе сервера (4xx) возвращает и результат, и *StatusError.
func (c *Client) ApplyMutation(ctx context.Context, change api.Change) (*api.ChangeResult, error) {
	var result api.ChangeResult
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/mutations", change, &result)
	if err != nil {
		if result.TempID != "" {
			return &result, fmt.Errorf("mutation request failed: %w", err)
		}
		return nil, fmt.Errorf("mutation request failed: %w", err)
	}
	return &result, nil
}

// PullChanges запрашивает изменения после watermark через GET /api/v1/sync
func (c *Client) PullChanges(ctx context.Context, since string) (*api.PullResponse, error) {
	path := "/api/v1/sync"
	if since != "" {
		path += "?since=" + url.QueryEscape(since)
	}

	var resp api.PullResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	return &resp, nil
}

// PushChanges отправляет пакет мутаций через POST /api/v1/sync
func (c *Client) PushChanges(ctx context.Context, changes []api.Change) (*api.PushResult, error) {
	var resp api.PushResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync", api.PushRequest{Changes: changes}, &resp); err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос. Тело ответа с ошибкой тоже декодируется в result, если возможно.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody, result)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// decodeError разбирает тело ответа с ошибкой: ChangeResult, ErrorResponse или текст
func decodeError(statusCode int, body []byte, result any) error {
	statusErr := &StatusError{StatusCode: statusCode}

	if cr, ok := result.(*api.ChangeResult); ok {
		if err := json.Unmarshal(body, cr); err == nil && cr.TempID != "" && cr.Error != "" {
			statusErr.Message = cr.Error
			return statusErr
		}
		*cr = api.ChangeResult{}
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && (errResp.Message != "" || errResp.Error != "") {
		statusErr.Message = errResp.Message
		if statusErr.Message == "" {
			statusErr.Message = errResp.Error
		}
		return statusErr
	}

	statusErr.Message = strings.TrimSpace(string(body))
	return statusErr
}
