package pool

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrently running tasks. Submit blocks
// until a worker slot frees up, so the caller's submission loop doubles
// as backpressure.
type Pool struct {
	sem   *semaphore.Weighted
	width int64
	log   *logrus.Entry
}

// New creates a pool running at most width tasks at once.
func New(width int, log *logrus.Entry) *Pool {
	w := int64(width)
	if w <= 0 {
		w = 4
		log.Warnf("worker count invalid or zero, defaulting to %d", w)
	}
	return &Pool{
		sem:   semaphore.NewWeighted(w),
		width: w,
		log:   log,
	}
}

// Submit acquires a worker slot and runs fn in its own goroutine,
// releasing the slot when fn returns. Blocks until a slot is available
// or ctx is cancelled.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer p.sem.Release(1)
		fn()
	}()
	return nil
}

// Wait blocks until every submitted task has finished or ctx is
// cancelled. The pool is reusable after a Wait that returns nil.
func (p *Pool) Wait(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.width); err != nil {
		return err
	}
	p.sem.Release(p.width)
	return nil
}

// Width returns the concurrency bound the pool enforces.
func (p *Pool) Width() int {
	return int(p.width)
}
