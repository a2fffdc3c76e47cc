package worker

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
)

// Pool runs CPU intensive jobs on a fixed set of goroutines. A job that panics is reported and
// recovered, and does not take its worker down with it.
type Pool struct {
	jobs   chan func()
	wg     sync.WaitGroup
	once   sync.Once
	panics atomic.Uint64
}

// NewPool starts a pool with n workers. If n is zero or less, one worker per CPU is started.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan func(), n)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for f := range p.jobs {
		p.run(f)
	}
}

func (p *Pool) run(f func()) {
	defer func() {
		if v := recover(); v != nil {
			p.panics.Add(1)
			sentry.CurrentHub().Recover(v)
		}
	}()
	f()
}

// Submit queues f to run on a worker. It blocks while every worker is busy and the queue is full.
func (p *Pool) Submit(f func()) {
	p.jobs <- f
}

// Run runs every job on the pool and waits for all of them to return.
func (p *Pool) Run(jobs ...func()) {
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, f := range jobs {
		p.Submit(func() {
			defer wg.Done()
			f()
		})
	}
	wg.Wait()
}

// Panics returns how many jobs have panicked so far.
func (p *Pool) Panics() uint64 {
	return p.panics.Load()
}

// Close stops the workers once the queued jobs are done. Submitting after Close panics.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Submit queues f on the shared pool.
func Submit(f func()) {
	defaultPoolOnce.Do(func() {
		defaultPool = NewPool(0)
	})
	defaultPool.Submit(f)
}
