package engine

import (
	"context"
	"sync"

	"github.com/julianstephens/pillars/internal/logger"
)

// Task is a best-effort side effect. It gets a context detached from the
// request that produced it.
type Task func(ctx context.Context)

// Dispatcher runs tasks on a background worker after the core write commits.
type Dispatcher struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan Task
	wg     sync.WaitGroup
}

func NewDispatcher(queueSize int) *Dispatcher {
	d := &Dispatcher{tasks: make(chan Task, queueSize)}
	d.wg.Add(1)
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for task := range d.tasks {
		d.run(task)
	}
}

func (d *Dispatcher) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Dispatched task panicked", "panic", r)
		}
	}()
	task(context.Background())
}

// Submit queues task without blocking the caller. A full queue hands the task
// to its own goroutine. Tasks submitted after Close are dropped.
func (d *Dispatcher) Submit(task Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn("Dispatcher closed, dropping task")
		return false
	}
	select {
	case d.tasks <- task:
	default:
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(task)
		}()
	}
	return true
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
