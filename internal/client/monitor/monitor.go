// Package monitor отслеживает наличие связи с сервером и запускает
// догоняющую синхронизацию при переходе в online.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// Состояния связи
const (
	StateOffline = "offline"
	StateOnline  = "online"
)

const (
	eventOnline  = "online"
	eventOffline = "offline"
)

//go:generate moq -out connector_mock.go . Connector
//go:generate moq -out syncer_mock.go . Syncer

// Connector управляет транспортным соединением
type Connector interface {
	IsConnected() bool
	// Reconnect запускает попытку соединения без ожидания backoff
	Reconnect()
}

// Syncer догоняющая синхронизация по уже открытому соединению
type Syncer interface {
	RequestPull(ctx context.Context) error
	Drain(ctx context.Context) error
}

// Options настройки монитора
type Options struct {
	// Debounce переходы в online чаще этого интервала объединяются. 0 - без ограничения.
	Debounce time.Duration
}

// Monitor конечный автомат offline <-> online
type Monitor struct {
	logger     *slog.Logger
	machine    *fsm.FSM
	conn       Connector
	syncer     Syncer
	now        func() time.Time
	lastOnline time.Time
	opts       Options
	mu         sync.Mutex
}

// New создает монитор в состоянии offline
func New(logger *slog.Logger, conn Connector, syncer Syncer, opts Options) *Monitor {
	m := &Monitor{
		logger: logger,
		conn:   conn,
		syncer: syncer,
		now:    time.Now,
		opts:   opts,
	}
	m.machine = fsm.NewFSM(
		StateOffline,
		fsm.Events{
			{Name: eventOnline, Src: []string{StateOffline}, Dst: StateOnline},
			{Name: eventOffline, Src: []string{StateOnline}, Dst: StateOffline},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				m.logger.InfoContext(ctx, "Connectivity changed", "from", e.Src, "to", e.Dst)
			},
		},
	)
	return m
}

// State текущее состояние
func (m *Monitor) State() string {
	return m.machine.Current()
}

// IsOnline сообщает, считается ли сервер доступным
func (m *Monitor) IsOnline() bool {
	return m.machine.Is(StateOnline)
}

// OnBecameOnline вызывается при появлении связи. Без соединения запускает
// подключение (догоняющую синхронизацию выполнит обработчик соединения),
// иначе запрашивает изменения и отправляет очередь.
// Debounce подавляет только догоняющую синхронизацию: состояние online
// фиксируется всегда.
func (m *Monitor) OnBecameOnline(ctx context.Context) error {
	if err := m.transition(ctx, eventOnline); err != nil {
		return err
	}

	m.mu.Lock()
	now := m.now()
	if m.opts.Debounce > 0 && !m.lastOnline.IsZero() && now.Sub(m.lastOnline) < m.opts.Debounce {
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "Online catch-up debounced", "debounce", m.opts.Debounce)
		return nil
	}
	m.lastOnline = now
	m.mu.Unlock()

	if !m.conn.IsConnected() {
		m.conn.Reconnect()
		return nil
	}

	var errs []error
	if err := m.syncer.RequestPull(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to request pull: %w", err))
	}
	if err := m.syncer.Drain(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to drain queue: %w", err))
	}
	return errors.Join(errs...)
}

// OnBecameOffline только отмечает состояние
func (m *Monitor) OnBecameOffline(ctx context.Context) error {
	return m.transition(ctx, eventOffline)
}

// transition выполняет событие автомата; повтор текущего состояния не ошибка
func (m *Monitor) transition(ctx context.Context, event string) error {
	err := m.machine.Event(ctx, event)
	if err == nil {
		return nil
	}

	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		return nil
	}
	return fmt.Errorf("failed to apply %s transition: %w", event, err)
}
