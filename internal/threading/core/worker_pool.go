package core

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"raymaze/internal/mathutil"
)

// WorkerPool is a fixed set of goroutines shared by every frame, so casting a
// frame's columns does not spawn goroutines.
type WorkerPool struct {
	numWorkers int
	jobs       chan func()
	quit       chan struct{}
	workers    sync.WaitGroup
	stopOnce   sync.Once
	stopped    atomic.Bool
	completed  atomic.Int64
}

// NewWorkerPool creates a pool of numWorkers goroutines; numWorkers <= 0 means one
// per CPU. Call Start before submitting work.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	wp.workers.Add(wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.workers.Done()
	for {
		select {
		case job := <-wp.jobs:
			job()
			wp.completed.Add(1)
		case <-wp.quit:
			return
		}
	}
}

// Submit queues job, blocking while the queue is full. It reports false, and
// runs nothing, once the pool is stopped.
func (wp *WorkerPool) Submit(job func()) bool {
	if wp.stopped.Load() {
		return false
	}
	select {
	case wp.jobs <- job:
		return true
	case <-wp.quit:
		return false
	}
}

// Stop shuts the workers down and waits for them to exit. Jobs still queued run on
// the caller so nobody waiting on them blocks forever.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		wp.stopped.Store(true)
		close(wp.quit)
		wp.workers.Wait()
		for {
			select {
			case job := <-wp.jobs:
				job()
			default:
				return
			}
		}
	})
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// CompletedJobs returns how many jobs the workers have finished.
func (wp *WorkerPool) CompletedJobs() int64 {
	return wp.completed.Load()
}

// ParallelRange splits [0, n) into batches of at most batch indices, calls fn once
// per batch on the workers and returns when every batch has run. A stopped pool
// runs the remaining batches on the caller, so results are always complete.
func (wp *WorkerPool) ParallelRange(n, batch int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	batch = mathutil.IntMax(1, batch)

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += batch {
		hi := mathutil.IntMin(lo+batch, n)
		wg.Add(1)
		job := func() {
			defer wg.Done()
			fn(lo, hi)
		}
		if !wp.Submit(job) {
			job()
		}
	}
	wg.Wait()
}

// ParallelFor runs fn for every index in [start, end).
func (wp *WorkerPool) ParallelFor(start, end int, fn func(int)) {
	wp.ParallelForWithContext(context.Background(), start, end, fn)
}

// ParallelForWithContext is ParallelFor with cancellation checked between indices.
func (wp *WorkerPool) ParallelForWithContext(ctx context.Context, start, end int, fn func(int)) {
	n := end - start
	wp.ParallelRange(n, n/wp.numWorkers, func(lo, hi int) {
		for i := start + lo; i < start+hi; i++ {
			if ctx.Err() != nil {
				return
			}
			fn(i)
		}
	})
}
