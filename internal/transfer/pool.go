package transfer

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Task is one unit of work executed by the pool.
type Task func(ctx context.Context) error

// Pool executes queued tasks with a fixed number of workers. A task error
// does not tear the pool down: batch downloads need the remaining objects
// to keep going when one fails, so errors are logged and the pool moves
// on. Stop closes the queue and joins every worker, which is the only way
// to know all tasks have settled.
type Pool struct {
	tasks  chan Task
	ctx    context.Context
	logger *zap.Logger

	wg   sync.WaitGroup
	stop sync.Once
}

func NewPool(ctx context.Context, size int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := &Pool{
		tasks:  make(chan Task, size),
		ctx:    ctx,
		logger: logger,
	}

	pool.wg.Add(size)
	for w := 0; w < size; w++ {
		go pool.work()
	}

	return pool
}

// work drains the queue until it is closed. Workers keep consuming after
// the context is cancelled so every queued task still settles; tasks are
// expected to observe the context themselves and fail fast.
func (p *Pool) work() {
	defer p.wg.Done()

	for task := range p.tasks {
		if err := task(p.ctx); err != nil {
			p.logger.Debug("pool task failed", zap.Error(err))
		}
	}
}

// Queue hands a task to the pool. It fails only when the pool context is
// cancelled before the task could be accepted; the caller then owns
// settling that task.
func (p *Pool) Queue(task Task) error {
	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Stop closes the queue and waits for all queued tasks to settle.
func (p *Pool) Stop() {
	p.stop.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}
