package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/iudanet/sgisync/internal/validation"
)

const (
	minJWTSecretLen  = 16
	minCheckInterval = time.Second
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
)

// Validate проверяет все значения и возвращает все найденные ошибки сразу
func (c *Server) Validate() error {
	var errs []error

	errs = append(errs, validateLog(&c.Log)...)
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path cannot be empty"))
	}
	if len(c.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Errorf("jwt_secret must be at least %d characters", minJWTSecretLen))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.HandshakeRate <= 0 {
		errs = append(errs, errors.New("handshake_rate must be positive"))
	}
	if c.HandshakeWindow <= 0 {
		errs = append(errs, errors.New("handshake_window must be positive"))
	}
	if c.TombstoneRetention < 0 {
		errs = append(errs, errors.New("tombstone_retention cannot be negative"))
	}
	if c.OutboundBuffer <= 0 {
		errs = append(errs, errors.New("outbound_buffer must be positive"))
	}

	return errors.Join(errs...)
}

// Validate проверяет конфигурацию клиента
func (c *Client) Validate() error {
	var errs []error

	errs = append(errs, validateLog(&c.Log)...)
	if u, err := url.Parse(c.ServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("server_url %q must be an absolute http(s) URL", c.ServerURL))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path cannot be empty"))
	}
	for _, scope := range c.Scopes {
		if _, err := validation.ResolveScope(scope); err != nil {
			errs = append(errs, fmt.Errorf("scopes: %w", err))
		}
	}
	if c.CheckInterval < minCheckInterval {
		errs = append(errs, fmt.Errorf("check_interval must be at least %s", minCheckInterval))
	}
	if c.Debounce < 0 {
		errs = append(errs, errors.New("debounce cannot be negative"))
	}

	return errors.Join(errs...)
}

func validateLog(l *Log) []error {
	var errs []error
	if !slices.Contains(logLevels, l.Level) {
		errs = append(errs, fmt.Errorf("log.level %q must be one of %v", l.Level, logLevels))
	}
	if !slices.Contains(logFormats, l.Format) {
		errs = append(errs, fmt.Errorf("log.format %q must be one of %v", l.Format, logFormats))
	}
	return errs
}
