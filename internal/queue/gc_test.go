package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockDLQPurger struct {
	calls     atomic.Int32
	purgeFunc func(ctx context.Context, retention time.Duration) (int, error)
}

func (m *mockDLQPurger) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	m.calls.Add(1)
	if m.purgeFunc != nil {
		return m.purgeFunc(ctx, retention)
	}
	return 0, nil
}

func TestGarbageCollector_PurgesOnTick(t *testing.T) {
	t.Parallel()

	mock := &mockDLQPurger{
		purgeFunc: func(context.Context, time.Duration) (int, error) { return 2, nil },
	}
	gc := NewGarbageCollector(mock, 10*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := gc.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Start returned %v", err)
	}
	if mock.calls.Load() == 0 {
		t.Error("purger was never invoked")
	}
}

func TestGarbageCollector_PassesRetention(t *testing.T) {
	t.Parallel()

	var got atomic.Int64
	mock := &mockDLQPurger{
		purgeFunc: func(_ context.Context, retention time.Duration) (int, error) {
			got.Store(int64(retention))
			return 0, nil
		},
	}
	gc := NewGarbageCollector(mock, 10*time.Millisecond, 48*time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_ = gc.Start(ctx)

	if time.Duration(got.Load()) != 48*time.Hour {
		t.Errorf("retention = %v, want 48h", time.Duration(got.Load()))
	}
}

func TestGarbageCollector_SurvivesPurgeErrors(t *testing.T) {
	t.Parallel()

	mock := &mockDLQPurger{
		purgeFunc: func(context.Context, time.Duration) (int, error) {
			return 0, errors.New("broker unavailable")
		},
	}
	gc := NewGarbageCollector(mock, 10*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	_ = gc.Start(ctx)

	if mock.calls.Load() < 2 {
		t.Errorf("calls = %d, want loop to continue after errors", mock.calls.Load())
	}
}

func TestGarbageCollector_NilPurgerIsSafe(t *testing.T) {
	t.Parallel()

	gc := NewGarbageCollector(nil, 10*time.Millisecond, time.Hour, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	if err := gc.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Start returned %v", err)
	}
}
