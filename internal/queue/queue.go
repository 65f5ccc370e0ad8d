// Package queue provides the unbounded FIFO buffer between HTTP ingestion and
// the dispatch worker.
package queue

import (
	"sync"

	"github.com/rewired-gh/alertrelay/internal/models"
)

// Queue is an unbounded FIFO of alerts. Enqueue never blocks; Dequeue blocks
// until an item is available or the queue is closed. Safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []models.Alert
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends an alert. Enqueueing on a closed queue is a no-op; the
// process is shutting down and queued alerts are dropped anyway.
func (q *Queue) Enqueue(alert models.Alert) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, alert)
	q.cond.Signal()
}

// Dequeue removes and returns the oldest alert, blocking until one is
// available. It returns ok=false once the queue is closed; pending items are
// not handed out after Close.
func (q *Queue) Dequeue() (models.Alert, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return models.Alert{}, false
	}
	alert := q.items[0]
	q.items = q.items[1:]
	return alert, true
}

// Len reports the number of pending alerts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes all blocked Dequeue callers. Pending alerts are discarded.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	q.cond.Broadcast()
}
