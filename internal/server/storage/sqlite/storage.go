package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/sgisync/internal/clock"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage represents SQLite storage implementation
type Storage struct {
	db    *sql.DB
	clock *clock.Clock
}

// Option настраивает Storage
type Option func(*Storage)

// WithClock задает часы, выдающие lastSyncAt.
// Reconcile engine должен использовать те же часы для syncTimestamp.
func WithClock(c *clock.Clock) Option {
	return func(s *Storage) {
		s.clock = c
	}
}

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	// Открываем соединение с БД
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Одно соединение: каждая мутация - отдельная транзакция, запросы сериализуются
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	storage := &Storage{db: db}
	for _, opt := range opts {
		opt(storage)
	}
	if storage.clock == nil {
		storage.clock = clock.New()
	}

	// Запускаем миграции
	if err := storage.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// После перезапуска часы не должны выдавать метки раньше уже сохраненных
	if err := storage.restoreClock(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Clock возвращает часы, которыми хранилище метит изменения
func (s *Storage) Clock() *clock.Clock {
	return s.clock
}

// Agenda возвращает хранилище событий агенды
func (s *Storage) Agenda() *AgendaStore {
	return &AgendaStore{s: s}
}

// Notifications возвращает хранилище уведомлений
func (s *Storage) Notifications() *NotificationStore {
	return &NotificationStore{s: s}
}

// runMigrations выполняет миграции из embedded FS
func (s *Storage) runMigrations() error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// Устанавливаем источник миграций из embedded FS
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

func (s *Storage) restoreClock(ctx context.Context) error {
	query := `
		SELECT MAX(ts) FROM (
			SELECT MAX(last_sync_at) AS ts FROM agenda_events
			UNION ALL SELECT MAX(last_sync_at) FROM notifications
			UNION ALL SELECT MAX(deleted_at) FROM tombstones
		)
	`

	var latest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query).Scan(&latest); err != nil {
		return fmt.Errorf("failed to read latest sync timestamp: %w", err)
	}
	if latest.Valid {
		s.clock.Observe(nanosToTime(latest.Int64))
	}
	return nil
}

// withTx выполняет fn в одной транзакции
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DB returns the underlying database connection for testing purposes
func (s *Storage) DB() *sql.DB {
	return s.db
}

// Границы времени, представимые в наносекундах int64 (1677-2262)
var (
	minNanosTime = time.Unix(0, math.MinInt64)
	maxNanosTime = time.Unix(0, math.MaxInt64)
)

// sinceToNanos переводит watermark в границу запроса; нулевое время - без границы.
// Время вне диапазона int64 прижимается к краю: UnixNano для него переполняется.
func sinceToNanos(since time.Time) int64 {
	switch {
	case since.IsZero(), since.Before(minNanosTime):
		return math.MinInt64
	case since.After(maxNanosTime):
		return math.MaxInt64
	}
	return since.UnixNano()
}

func nanosToTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
