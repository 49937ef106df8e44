package core

import (
	"context"
	"runtime"
	"sync"

	"raymaze/internal/mathutil"
)

// Runner executes batched index loops, possibly in parallel.
type Runner interface {
	ParallelRange(n, batch int, fn func(lo, hi int))
	Workers() int
}

// Serial runs every batch on the calling goroutine.
type Serial struct{}

func (Serial) ParallelRange(n, batch int, fn func(lo, hi int)) {
	if n > 0 {
		fn(0, n)
	}
}

func (Serial) Workers() int { return 1 }

// CreateDefaultWorkerPool creates and starts a worker pool with the given size,
// 0 meaning one worker per CPU.
func CreateDefaultWorkerPool(workers int) *WorkerPool {
	pool := NewWorkerPool(workers)
	pool.Start()
	return pool
}

// ParallelMap executes fn for each item on short-lived goroutines and returns the
// results in input order.
func ParallelMap[T any, R any](items []T, fn func(T) R) []R {
	return ParallelMapWithContext(context.Background(), items, fn)
}

// ParallelMapWithContext is ParallelMap with cancellation checked between items.
// Items skipped after cancellation keep the zero value.
func ParallelMapWithContext[T any, R any](ctx context.Context, items []T, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}

	numWorkers := mathutil.IntMin(runtime.NumCPU(), len(items))
	chunkSize := mathutil.IntMax(1, len(items)/numWorkers)

	results := make([]R, len(items))
	var wg sync.WaitGroup

	for i := 0; i < len(items); i += chunkSize {
		start := i
		end := mathutil.IntMin(i+chunkSize, len(items))

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				if ctx.Err() != nil {
					return
				}
				results[j] = fn(items[j])
			}
		}(start, end)
	}

	wg.Wait()
	return results
}
