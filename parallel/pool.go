package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc queues a unit of work.
	WorkerFunc func(func())
	// WaitFunc waits for the workers to exit. With done set the queue is
	// closed first, which is what lets them exit.
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start launches numWorkers goroutines, GOMAXPROCS when numWorkers < 1. A
// single worker pool runs work inline on the caller's goroutine.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Each queues f(i) for every i in [0, n) and returns once all of them ran.
// Unlike Wait it leaves the pool open.
func Each(worker WorkerFunc, n int, f func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		worker(func() {
			defer wg.Done()
			f(i)
		})
	}
	wg.Wait()
}
