package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// LoadServer собирает конфигурацию сервера.
// v может содержать заранее привязанные флаги (v.BindPFlag); они имеют наивысший приоритет.
// Пустой path означает "без файла".
func LoadServer(v *viper.Viper, path string) (*Server, error) {
	cfg := DefaultServer()
	if err := load(v, path, serverDefaults(&cfg), &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadClient собирает конфигурацию клиента
func LoadClient(v *viper.Viper, path string) (*Client, error) {
	cfg := DefaultClient()
	if err := load(v, path, clientDefaults(&cfg), &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func load(v *viper.Viper, path string, defaults map[string]any, out any) error {
	if v == nil {
		v = viper.New()
	}

	// Ключи должны быть известны viper, иначе AutomaticEnv их не увидит при Unmarshal
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("config file %s not found: %w", path, err)
			}
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func logDefaults(l *Log) map[string]any {
	return map[string]any{
		"log.level":  l.Level,
		"log.format": l.Format,
		"log.file":   l.File,
	}
}

func serverDefaults(cfg *Server) map[string]any {
	d := logDefaults(&cfg.Log)
	d["listen_addr"] = cfg.ListenAddr
	d["db_path"] = cfg.DBPath
	d["jwt_secret"] = cfg.JWTSecret
	d["origin_patterns"] = cfg.OriginPatterns
	d["token_ttl"] = cfg.TokenTTL
	d["handshake_rate"] = cfg.HandshakeRate
	d["handshake_window"] = cfg.HandshakeWindow
	d["tombstone_retention"] = cfg.TombstoneRetention
	d["outbound_buffer"] = cfg.OutboundBuffer
	d["strict_versions"] = cfg.StrictVersions
	return d
}

func clientDefaults(cfg *Client) map[string]any {
	d := logDefaults(&cfg.Log)
	d["server_url"] = cfg.ServerURL
	d["token"] = cfg.Token
	d["db_path"] = cfg.DBPath
	d["spool_dir"] = cfg.SpoolDir
	d["scopes"] = cfg.Scopes
	d["check_interval"] = cfg.CheckInterval
	d["debounce"] = cfg.Debounce
	return d
}
