// Package backup builds zip archives of a company's stored documents.
// A scheduled round enqueues every company and a small worker pool
// drains the queue.
package backup

import (
	"sync"
	"time"

	"fakturo/internal/core/id"
)

// Queue is an in-memory FIFO of companies awaiting a backup run.
// Safe for concurrent producers and consumers.
type Queue struct {
	mu     sync.Mutex
	ids    []id.ID
	signal chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Enqueue adds a company to the queue. Nil ids are ignored.
func (q *Queue) Enqueue(companyID id.ID) {
	if id.IsNil(companyID) {
		return
	}
	q.mu.Lock()
	q.ids = append(q.ids, companyID)
	q.mu.Unlock()
	q.wake()
}

// Dequeue removes the oldest queued company, waiting up to timeout for
// one to arrive. Returns ok=false when the wait expires.
func (q *Queue) Dequeue(timeout time.Duration) (id.ID, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.ids) > 0 {
			companyID := q.ids[0]
			q.ids = q.ids[1:]
			remaining := len(q.ids)
			q.mu.Unlock()

			// Pass the wakeup on so sibling workers see the rest.
			if remaining > 0 {
				q.wake()
			}
			return companyID, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-deadline.C:
			return id.Nil(), false
		}
	}
}

// Len reports how many companies are currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

func (q *Queue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
