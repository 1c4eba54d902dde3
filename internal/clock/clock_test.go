package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_Now_Monotonicity(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithSource(func() time.Time { return frozen })

	previous := c.Now()
	assert.Equal(t, frozen, previous)
	for i := 0; i < 100; i++ {
		current := c.Now()
		assert.True(t, current.After(previous), "Now should always increase")
		previous = current
	}
}

func TestClock_Now_BackwardsSource(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	c := NewWithSource(func() time.Time {
		t := times[i]
		i++
		return t
	})

	first := c.Now()
	second := c.Now()
	assert.Equal(t, first.Add(time.Nanosecond), second)
}

func TestClock_Now_Concurrent(t *testing.T) {
	c := New()

	const goroutines = 20
	const perGoroutine = 50

	var mu sync.Mutex
	seen := make(map[time.Time]struct{})
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				ts := c.Now()
				mu.Lock()
				seen[ts] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine, "all timestamps must be unique")
}

func TestClock_Observe(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewWithSource(func() time.Time { return base })

	future := base.Add(time.Hour)
	c.Observe(future)
	assert.Equal(t, future, c.Last())
	assert.True(t, c.Now().After(future))

	c.Observe(base)
	assert.True(t, c.Last().After(future), "Observe must not move clock backwards")
}

func TestParseFormat(t *testing.T) {
	ts := time.Date(2024, 3, 5, 10, 20, 30, 123456789, time.UTC)

	parsed, err := Parse(Format(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	zero, err := Parse("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = Parse("yesterday")
	assert.Error(t, err)
}

func TestLater(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "later", a: "2024-01-02T00:00:00Z", b: "2024-01-01T00:00:00Z", want: true},
		{name: "earlier", a: "2024-01-01T00:00:00Z", b: "2024-01-02T00:00:00Z", want: false},
		{name: "equal", a: "2024-01-01T00:00:00Z", b: "2024-01-01T00:00:00Z", want: false},
		{name: "any beats empty", a: "2024-01-01T00:00:00Z", b: "", want: true},
		{name: "garbage never later", a: "garbage", b: "", want: false},
		{name: "valid beats garbage", a: "2024-01-01T00:00:00Z", b: "garbage", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Later(tt.a, tt.b))
		})
	}
}
