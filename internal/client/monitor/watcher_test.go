package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/pkg/api"
)

func newTarget() *TargetMock {
	return &TargetMock{
		OnBecameOnlineFunc:  func(ctx context.Context) error { return nil },
		OnBecameOfflineFunc: func(ctx context.Context) error { return nil },
	}
}

func TestWatcher_ReportsTransitionsOnly(t *testing.T) {
	errDown := errors.New("connection refused")
	results := []error{nil, nil, errDown, errDown, nil}
	i := 0

	checker := &HealthCheckerMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			err := results[i]
			i++
			if err != nil {
				return nil, err
			}
			return &api.HealthResponse{Status: "ok"}, nil
		},
	}
	target := newTarget()
	p := NewWatcher(setupTestLogger(), checker, target, time.Minute)

	for range results {
		p.Check(context.Background())
	}

	assert.Len(t, checker.HealthCalls(), 5)
	assert.Len(t, target.OnBecameOnlineCalls(), 2)
	assert.Len(t, target.OnBecameOfflineCalls(), 1)
}

func TestWatcher_FirstCheckOffline(t *testing.T) {
	checker := &HealthCheckerMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			return nil, errors.New("no route to host")
		},
	}
	target := newTarget()
	p := NewWatcher(setupTestLogger(), checker, target, time.Minute)

	p.Check(context.Background())
	p.Check(context.Background())

	assert.Empty(t, target.OnBecameOnlineCalls())
	assert.Len(t, target.OnBecameOfflineCalls(), 1)
}

func TestWatcher_DrivesMonitor(t *testing.T) {
	var up atomic.Bool
	checker := &HealthCheckerMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			if up.Load() {
				return &api.HealthResponse{Status: "ok"}, nil
			}
			return nil, errors.New("down")
		},
	}
	conn := newConnector(false)
	m := New(setupTestLogger(), conn, newSyncer(), Options{})
	p := NewWatcher(setupTestLogger(), checker, m, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(checker.HealthCalls()) >= 1 }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, m.IsOnline())

	up.Store(true)
	require.Eventually(t, m.IsOnline, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(conn.ReconnectCalls()) == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
