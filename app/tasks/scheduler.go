package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const maxRetryDelay = 30 * time.Second

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler executes queued tasks on a worker pool. A failed task is
// re-queued with a doubling delay until it runs out of retries.
type Scheduler struct {
	workerCount int
	taskTimeout time.Duration
	retryDelay  time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	pending     sync.WaitGroup
	taskQueue   chan TaskInterface
	stopOnce    sync.Once

	mu     sync.Mutex
	failed []TaskInterface
}

func NewScheduler(workerCount int, taskTimeout, retryDelay time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		workerCount: max(workerCount, 1),
		taskTimeout: taskTimeout,
		retryDelay:  retryDelay,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels running tasks and waits for the workers. Tasks still queued
// are reported as failed.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()

		for {
			select {
			case task := <-s.taskQueue:
				s.markFailed(task)
			default:
				return
			}
		}
	})
}

// Wait blocks until every enqueued task has succeeded or failed for good.
func (s *Scheduler) Wait() {
	s.pending.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	s.pending.Add(1)

	select {
	case s.taskQueue <- task:
		return nil
	default:
		s.pending.Done()
		return fmt.Errorf("task queue is full")
	}
}

// Failed returns the tasks that exhausted their retries or were interrupted.
func (s *Scheduler) Failed() []TaskInterface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TaskInterface(nil), s.failed...)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := s.taskContext(task)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.pending.Done()
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if s.ctx.Err() != nil {
		s.markFailed(task)
		return
	}

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.markFailed(task)
		return
	}

	task.IncrementRetryCount()
	retryDelay := min(s.retryDelay*time.Duration(1<<uint(task.GetRetryCount()-1)), maxRetryDelay)

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSource(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.markFailed(task)
			return
		case <-timer.C:
		}

		select {
		case s.taskQueue <- task:
		case <-s.ctx.Done():
			s.markFailed(task)
		}
	}()
}

// taskContext bounds one run by the task's own timeout, falling back to the
// scheduler default.
func (s *Scheduler) taskContext(task TaskInterface) (context.Context, context.CancelFunc) {
	timeout := cmp.Or(task.GetTimeout(), s.taskTimeout)
	if timeout <= 0 {
		return context.WithCancel(s.ctx)
	}
	return context.WithTimeout(s.ctx, timeout)
}

func (s *Scheduler) markFailed(task TaskInterface) {
	s.mu.Lock()
	s.failed = append(s.failed, task)
	s.mu.Unlock()
	s.pending.Done()
}
