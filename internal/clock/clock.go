// Package clock выдает серверные временные метки синхронизации.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock выдает строго возрастающие метки времени в UTC.
// Если системное время не сдвинулось (или ушло назад), следующая метка
// равна предыдущей плюс одна наносекунда.
type Clock struct {
	last time.Time
	now  func() time.Time
	mu   sync.Mutex
}

// New создает часы на системном времени
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource создает часы с заданным источником времени.
// Используется в тестах для управляемого времени.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Now возвращает следующую метку, строго большую всех ранее выданных
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}

// Observe сдвигает часы вперед, если увидена более поздняя метка
// (например, прочитанная из базы после перезапуска).
func (c *Clock) Observe(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.After(c.last) {
		c.last = t.UTC()
	}
}

// Last возвращает последнюю выданную метку без ее изменения
func (c *Clock) Last() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}

// Format сериализует метку в формат watermark (RFC3339Nano, UTC)
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Parse разбирает watermark. Пустая строка означает "с самого начала"
// и возвращает нулевое время.
func Parse(watermark string) (time.Time, error) {
	if watermark == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, watermark)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid watermark %q: %w", watermark, err)
	}
	return t.UTC(), nil
}

// Later сравнивает два watermark и возвращает true, если a строго позже b.
// Неразбираемые значения считаются более ранними.
func Later(a, b string) bool {
	ta, errA := Parse(a)
	if errA != nil {
		return false
	}
	tb, errB := Parse(b)
	if errB != nil {
		return true
	}
	return ta.After(tb)
}
