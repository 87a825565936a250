package testutil

import (
	"bytes"
	"sync"
)

// MockWriter records what is written to it and can be told to start failing.
type MockWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	writes int
	failAt int
	err    error
}

// NewMockWriter creates a MockWriter that accepts every write.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write appends p, or returns the configured error once the failing write has
// been reached.
func (w *MockWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writes++
	if w.err != nil && w.writes > w.failAt {
		return 0, w.err
	}
	return w.buf.Write(p)
}

// FailAfter lets n more writes succeed and fails every later one with err.
func (w *MockWriter) FailAfter(n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failAt = w.writes + n
	w.err = err
}

// String returns everything written so far.
func (w *MockWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Writes returns the number of Write calls, failed ones included.
func (w *MockWriter) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
