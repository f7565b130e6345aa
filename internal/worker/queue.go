package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"job-portal/internal/metrics"

	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("work queue full")
	ErrQueueClosed = errors.New("work queue closed")
)

type Task func(ctx context.Context) error

type namedTask struct {
	name string
	run  Task
}

// Queue is a bounded pool of workers for fire-and-forget tasks. Submit never
// blocks; callers decide what to do with a rejected task.
type Queue struct {
	workers int
	timeout time.Duration
	tasks   chan namedTask
	log     *zap.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewQueue(workers, buffer int, timeout time.Duration, log *zap.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		workers: workers,
		timeout: timeout,
		tasks:   make(chan namedTask, buffer),
		log:     log.With(zap.String("component", "work_queue")),
	}
}

func (q *Queue) Submit(name string, t Task) error {
	if q == nil || t == nil {
		return ErrQueueClosed
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		metrics.QueueTasks.WithLabelValues("rejected").Inc()
		return ErrQueueClosed
	}

	select {
	case q.tasks <- namedTask{name: name, run: t}:
		metrics.QueueDepth.Inc()
		return nil
	default:
		metrics.QueueTasks.WithLabelValues("dropped").Inc()
		return fmt.Errorf("%w: %s", ErrQueueFull, name)
	}
}

// Run starts the workers. Tasks get a context derived from ctx, bounded by
// the task timeout when one is set. Calling Run twice is a no-op.
func (q *Queue) Run(ctx context.Context) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	q.wg.Add(q.workers)
	for i := 0; i < q.workers; i++ {
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-q.tasks:
					if !ok {
						return
					}
					metrics.QueueDepth.Dec()
					q.execute(ctx, t)
				}
			}
		}()
	}
}

// Close stops accepting tasks and waits for queued and running ones to
// finish, or for ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) execute(parent context.Context, t namedTask) {
	ctx := parent
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, q.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.QueueTasks.WithLabelValues("panicked").Inc()
			q.log.Error("task panicked", zap.String("task", t.name), zap.Any("panic", r))
		}
	}()

	if err := t.run(ctx); err != nil {
		metrics.QueueTasks.WithLabelValues("failed").Inc()
		q.log.Error("task failed", zap.String("task", t.name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return
	}
	metrics.QueueTasks.WithLabelValues("succeeded").Inc()
	q.log.Debug("task done", zap.String("task", t.name), zap.Duration("took", time.Since(start)))
}
