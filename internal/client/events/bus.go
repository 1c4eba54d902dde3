// Package events локальная шина событий клиента.
// Обработчики вызываются синхронно в горутине Publish.
package events

import (
	"fmt"
	"log/slog"
	"sync"
)

// Handler обработчик события. Ошибка только логируется.
type Handler func(data any) error

// Subscriber подписка на события
type Subscriber interface {
	On(event string, handler Handler) (unsubscribe func())
}

// Publisher публикация событий
type Publisher interface {
	Publish(event string, data any)
}

// Bus реализация Subscriber и Publisher
type Bus struct {
	logger   *slog.Logger
	handlers map[string]map[uint64]Handler
	nextID   uint64
	mu       sync.RWMutex
}

var (
	_ Subscriber = (*Bus)(nil)
	_ Publisher  = (*Bus)(nil)
)

// NewBus создает пустую шину
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger:   logger,
		handlers: make(map[string]map[uint64]Handler),
	}
}

// On регистрирует обработчик. Возвращенная функция отписывает его;
// повторный вызов ничего не делает.
func (b *Bus) On(event string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.handlers[event] == nil {
		b.handlers[event] = make(map[uint64]Handler)
	}
	b.handlers[event][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers[event], id)
			if len(b.handlers[event]) == 0 {
				delete(b.handlers, event)
			}
		})
	}
}

// Publish вызывает все обработчики event. Паника или ошибка одного
// обработчика не мешает остальным. Без обработчиков ничего не происходит.
func (b *Bus) Publish(event string, data any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event]))
	for _, h := range b.handlers[event] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := b.invoke(h, data); err != nil {
			b.logger.Error("Event handler failed", "event", event, "error", err)
		}
	}
}

// HandlerCount число обработчиков event
func (b *Bus) HandlerCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}

func (b *Bus) invoke(h Handler, data any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(data)
}
