// ABOUTME: Tests for bounded retry using a fake timer.
// ABOUTME: Asserts attempt counts, wait durations and permanent errors.

package retry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer fires immediately and records every requested wait.
type fakeTimer struct {
	mu    sync.Mutex
	waits []time.Duration
	c     chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{c: make(chan time.Time, 1)}
}

func (f *fakeTimer) Start(d time.Duration) {
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.mu.Unlock()
	f.c <- time.Time{}
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time {
	return f.c
}

func (f *fakeTimer) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.waits...)
}

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func TestDoSucceedsFirstTry(t *testing.T) {
	timer := newFakeTimer()
	p := DefaultPolicy()
	p.Timer = timer

	calls := 0
	err := Do(context.Background(), p, func(context.Context, int) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, timer.Waits())
}

func TestDoRetriesWithDoublingWaits(t *testing.T) {
	timer := newFakeTimer()
	p := DefaultPolicy()
	p.Timer = timer

	var attempts []int
	err := Do(context.Background(), p, func(_ context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.Waits())
}

func TestDoExhausts(t *testing.T) {
	timer := newFakeTimer()
	p := DefaultPolicy()
	p.Timer = timer

	var notified []int
	p.Notify = func(attempt int, err error, wait time.Duration) {
		notified = append(notified, attempt)
	}

	calls := 0
	err := Do(context.Background(), p, func(context.Context, int) error {
		calls++
		return errTransient
	})

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, 3, ex.Attempts)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, notified)
	assert.Len(t, timer.Waits(), 2)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	timer := newFakeTimer()
	p := DefaultPolicy()
	p.Timer = timer
	p.Retryable = func(err error) bool { return !errors.Is(err, errFatal) }

	calls := 0
	err := Do(context.Background(), p, func(context.Context, int) error {
		calls++
		return errFatal
	})

	assert.Equal(t, errFatal, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, timer.Waits())
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy()
	p.InitialInterval = time.Hour

	calls := 0
	err := Do(ctx, p, func(context.Context, int) error {
		calls++
		cancel()
		return errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicyDefaults(t *testing.T) {
	p := Policy{}.withDefaults()
	assert.Equal(t, DefaultPolicy(), p)
}
