// Package parallel provides a small worker pool for data-parallel kernel
// dispatch.
package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
}

// New creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// ExecuteAll submits all tasks and blocks until every one has completed.
// The returned completion acts as a full barrier.
func (p *Pool) ExecuteAll(tasks []func()) {
	if len(tasks) == 0 {
		return
	}

	var done sync.WaitGroup
	done.Add(len(tasks))

	for _, task := range tasks {
		task := task
		p.tasks <- func() {
			defer done.Done()
			task()
		}
	}

	done.Wait()
}

// Close stops the workers after all queued tasks finish. The pool must not
// be used after Close.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
}
