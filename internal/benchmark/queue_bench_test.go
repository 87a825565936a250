package benchmark

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/vnykmshr/activeflow/pkg/scheduling/queue"
)

// BenchmarkQueueEnqueue measures enqueue cost with one consumer draining.
func BenchmarkQueueEnqueue(b *testing.B) {
	q := queue.New[int]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx := context.Background()
		for {
			if _, err := q.Dequeue(ctx); err != nil {
				return
			}
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = q.Enqueue(i)
	}
	b.StopTimer()

	q.Close()
	<-done
}

// BenchmarkChannelBaseline is the same workload on a buffered channel.
func BenchmarkChannelBaseline(b *testing.B) {
	ch := make(chan int, 1000)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch {
			_ = struct{}{}
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ch <- i
	}
	b.StopTimer()

	close(ch)
	<-done
}

// BenchmarkQueueDequeue measures dequeue cost from a prefilled queue.
func BenchmarkQueueDequeue(b *testing.B) {
	q := queue.New[int]()
	for i := 0; i < b.N; i++ {
		_ = q.Enqueue(i)
	}
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = q.Dequeue(ctx)
	}
}

// BenchmarkQueueTryDequeue measures the non-blocking path on an empty queue.
func BenchmarkQueueTryDequeue(b *testing.B) {
	q := queue.New[int]()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = q.TryDequeue()
	}
}

// BenchmarkQueueContention measures many producers feeding one consumer,
// the shape of a serial engine under load.
func BenchmarkQueueContention(b *testing.B) {
	for _, producers := range []int{2, 4, 8, 16} {
		b.Run(producerLabel(producers), func(b *testing.B) {
			q := queue.New[int]()

			done := make(chan struct{})
			go func() {
				defer close(done)
				ctx := context.Background()
				for {
					if _, err := q.Dequeue(ctx); err != nil {
						return
					}
				}
			}()

			b.ReportAllocs()
			b.ResetTimer()

			var wg sync.WaitGroup
			perProducer := b.N / producers
			wg.Add(producers)
			for p := 0; p < producers; p++ {
				go func() {
					defer wg.Done()
					for i := 0; i < perProducer; i++ {
						_ = q.Enqueue(i)
					}
				}()
			}
			wg.Wait()
			b.StopTimer()

			q.Close()
			<-done
		})
	}
}

func producerLabel(n int) string {
	return strconv.Itoa(n) + "producers"
}

func workerLabel(n int) string {
	return strconv.Itoa(n) + "workers"
}
