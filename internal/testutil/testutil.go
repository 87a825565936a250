package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// Defaults for RunConcurrently callers that reproduce the classic
// "five threads, ten thousand increments each" stress run.
const (
	DefaultGoroutines = 5
	DefaultIterations = 10000
)

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), TestTimeout)
}

// RunConcurrently starts goroutines workers, holds them at a common start
// barrier, then has each call fn iterations times. It returns once every
// worker has finished or fails the test after TestTimeout.
func RunConcurrently(t testing.TB, goroutines, iterations int, fn func(worker, iteration int)) {
	t.Helper()

	start := make(chan struct{})
	var ready, wg sync.WaitGroup
	ready.Add(goroutines)
	wg.Add(goroutines)

	for w := 0; w < goroutines; w++ {
		go func(worker int) {
			defer wg.Done()
			ready.Done()
			<-start
			for i := 0; i < iterations; i++ {
				fn(worker, i)
			}
		}(w)
	}

	ready.Wait()
	close(start)

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(TestTimeout):
		t.Fatalf("concurrent run of %d goroutines did not finish within %v", goroutines, TestTimeout)
	}
}

// Eventually polls condition every tick until it returns true, failing the
// test if that does not happen within timeout.
func Eventually(t testing.TB, condition func() bool, timeout, tick time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	EventuallyWithContext(t, ctx, condition, tick)
}

// EventuallyWithContext is Eventually bounded by ctx instead of a timeout.
func EventuallyWithContext(t testing.TB, ctx context.Context, condition func() bool, tick time.Duration) {
	t.Helper()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		if condition() {
			return
		}
		select {
		case <-ctx.Done():
			t.Fatalf("condition not met: %v", ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

// WaitForInt64 waits until *addr equals want.
func WaitForInt64(t testing.TB, addr *int64, want int64, timeout time.Duration) {
	t.Helper()
	Eventually(t, func() bool {
		return atomic.LoadInt64(addr) == want
	}, timeout, time.Millisecond)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// AssertNotEqual fails the test if got == want
func AssertNotEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got == want {
		t.Fatalf("got %v, want anything else", got)
	}
}

// CallbackTracker records invocations of a callback, typically a sink.
type CallbackTracker struct {
	mu    sync.Mutex
	count int
	value interface{}
}

// NewCallbackTracker creates an empty tracker.
func NewCallbackTracker() *CallbackTracker {
	return &CallbackTracker{}
}

// Mark records one call and, if given, the last value seen.
func (c *CallbackTracker) Mark(value ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	if len(value) > 0 {
		c.value = value[0]
	}
}

// Called reports whether Mark was called at least once.
func (c *CallbackTracker) Called() bool {
	return c.CallCount() > 0
}

// CallCount returns the number of Mark calls.
func (c *CallbackTracker) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Value returns the last value passed to Mark.
func (c *CallbackTracker) Value() interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Reset clears the tracker.
func (c *CallbackTracker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.value = nil
}

// AssertCallCount fails the test unless Mark was called exactly n times.
func (c *CallbackTracker) AssertCallCount(t testing.TB, n int) {
	t.Helper()
	if got := c.CallCount(); got != n {
		t.Fatalf("callback called %d times, want %d", got, n)
	}
}
