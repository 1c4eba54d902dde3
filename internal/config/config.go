// Package config загружает конфигурацию сервера и клиента:
// значения по умолчанию, затем TOML файл, затем переменные окружения SGISYNC_*,
// затем флаги командной строки.
package config

import "time"

// EnvPrefix префикс переменных окружения
const EnvPrefix = "SGISYNC"

// Log настройки логирования
type Log struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level" toml:"level"`
	// Format: auto, text, json. auto выбирает text для терминала
	Format string `mapstructure:"format" toml:"format"`
	// File путь к файлу лога с ротацией; пусто - только stderr
	File string `mapstructure:"file" toml:"file"`
}

// Server конфигурация сервера синхронизации
type Server struct {
	Log                Log           `mapstructure:"log" toml:"log"`
	ListenAddr         string        `mapstructure:"listen_addr" toml:"listen_addr"`
	DBPath             string        `mapstructure:"db_path" toml:"db_path"`
	JWTSecret          string        `mapstructure:"jwt_secret" toml:"jwt_secret"`
	OriginPatterns     []string      `mapstructure:"origin_patterns" toml:"origin_patterns"`
	TokenTTL           time.Duration `mapstructure:"token_ttl" toml:"token_ttl"`
	HandshakeWindow    time.Duration `mapstructure:"handshake_window" toml:"handshake_window"`
	TombstoneRetention time.Duration `mapstructure:"tombstone_retention" toml:"tombstone_retention"`
	OutboundBuffer     int           `mapstructure:"outbound_buffer" toml:"outbound_buffer"`
	HandshakeRate      int           `mapstructure:"handshake_rate" toml:"handshake_rate"`
	StrictVersions     bool          `mapstructure:"strict_versions" toml:"strict_versions"`
}

// Client конфигурация клиента синхронизации
type Client struct {
	Log           Log           `mapstructure:"log" toml:"log"`
	ServerURL     string        `mapstructure:"server_url" toml:"server_url"`
	Token         string        `mapstructure:"token" toml:"token"`
	DBPath        string        `mapstructure:"db_path" toml:"db_path"`
	SpoolDir      string        `mapstructure:"spool_dir" toml:"spool_dir"`
	Scopes        []string      `mapstructure:"scopes" toml:"scopes"`
	CheckInterval time.Duration `mapstructure:"check_interval" toml:"check_interval"`
	Debounce      time.Duration `mapstructure:"debounce" toml:"debounce"`
}

// DefaultLog настройки логирования по умолчанию
func DefaultLog() Log {
	return Log{
		Level:  "info",
		Format: "auto",
	}
}

// DefaultServer конфигурация сервера по умолчанию. jwt_secret обязателен и не имеет значения по умолчанию.
func DefaultServer() Server {
	return Server{
		Log:                DefaultLog(),
		ListenAddr:         ":8080",
		DBPath:             "sgisync.db",
		TokenTTL:           24 * time.Hour,
		HandshakeRate:      30,
		HandshakeWindow:    time.Minute,
		TombstoneRetention: 30 * 24 * time.Hour,
		OutboundBuffer:     256,
	}
}

// DefaultClient конфигурация клиента по умолчанию
func DefaultClient() Client {
	return Client{
		Log:           DefaultLog(),
		ServerURL:     "http://localhost:8080",
		DBPath:        "sgisync-client.db",
		Scopes:        []string{"agenda:all"},
		CheckInterval: 15 * time.Second,
	}
}
