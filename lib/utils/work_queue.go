package utils

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/pkg/errors"
)

var ErrQueueClosed = errors.New("work queue is closed")

type Task func()

// WorkQueue runs submitted tasks on a fixed number of goroutines. A panic in
// a task is reported to onPanic and does not stop the queue.
type WorkQueue struct {
	mutex  sync.RWMutex
	closed bool
	group  *ProcessGroup[Task, struct{}]
}

func NewWorkQueue(routines int, onPanic func(error)) *WorkQueue {
	run := func(task Task) (result struct{}, err error) {
		defer func() {
			if r := recover(); r != nil && onPanic != nil {
				onPanic(fmt.Errorf("task panicked: %v\n%s", r, debug.Stack()))
			}
		}()

		task()
		return
	}

	group := NewProcessGroup(run, ParallelOptions{
		Routines:    routines,
		InputFactor: 64,
	})

	go func() {
		for range group.Output {
		}
	}()

	return &WorkQueue{
		group: group,
	}
}

// Submit queues a task. It blocks only while the queue buffer is full.
func (q *WorkQueue) Submit(task Task) error {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.group.Input <- task
	return nil
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (q *WorkQueue) Close() {
	q.mutex.Lock()
	if !q.closed {
		q.closed = true
		q.group.FinishedInput()
	}
	q.mutex.Unlock()

	q.group.Wait()
}
