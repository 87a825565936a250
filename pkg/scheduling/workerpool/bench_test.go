package workerpool

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// BenchmarkTaskExecution measures the overhead of task submission and execution
func BenchmarkTaskExecution(b *testing.B) {
	pool := New(4)
	defer func() { <-pool.Shutdown() }()

	task := TaskFunc(func(ctx context.Context) error {
		// Minimal work
		return nil
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = pool.Submit(context.Background(), task, nil)
		}
	})
}

// BenchmarkRoundTrip measures submit-to-callback latency
func BenchmarkRoundTrip(b *testing.B) {
	pool := New(4)
	defer func() { <-pool.Shutdown() }()

	task := TaskFunc(func(ctx context.Context) error { return nil })
	done := make(chan Result, 1)
	callback := func(r Result) { done <- r }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = pool.Submit(context.Background(), task, callback)
		<-done
	}
}

// BenchmarkWorkerPoolScaling measures throughput across worker counts
func BenchmarkWorkerPoolScaling(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8, 16} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			pool := New(workers)
			defer func() { <-pool.Shutdown() }()

			var wg sync.WaitGroup
			task := TaskFunc(func(ctx context.Context) error {
				sum := 0
				for i := 0; i < 1000; i++ {
					sum += i
				}
				_ = sum
				return nil
			})
			callback := func(Result) { wg.Done() }

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				wg.Add(1)
				_, _ = pool.Submit(context.Background(), task, callback)
			}
			wg.Wait()
		})
	}
}

// BenchmarkPanicRecovery measures the cost of recovering task panics
func BenchmarkPanicRecovery(b *testing.B) {
	pool := New(4)
	defer func() { <-pool.Shutdown() }()

	var wg sync.WaitGroup
	task := TaskFunc(func(ctx context.Context) error {
		panic("benchmark panic")
	})
	callback := func(Result) { wg.Done() }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		_, _ = pool.Submit(context.Background(), task, callback)
	}
	wg.Wait()
}

// BenchmarkStateInspection measures the cost of reading pool counters
func BenchmarkStateInspection(b *testing.B) {
	pool := New(4)
	defer func() { <-pool.Shutdown() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.ActiveWorkers()
		_ = pool.QueueSize()
		_ = pool.TotalSubmitted()
		_ = pool.TotalCompleted()
	}
}
