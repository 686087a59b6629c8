// Package dispatch provides the single dispatch thread the editing engine
// runs on. Background producers post work onto a Queue; the host drains it.
package dispatch

import "sync"

// Dispatcher accepts work to run on the dispatch thread.
type Dispatcher interface {
	Post(fn func())
}

// Queue is a FIFO of pending work. Each call to Drain is one dispatch turn:
// work posted while a turn is running lands in the next turn.
type Queue struct {
	mu      sync.Mutex
	pending []func()

	// Wake, when set, is called after every Post. Hosts use it to schedule
	// a Drain (for example by sending a message to their event loop).
	Wake func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post enqueues fn for the next turn. Safe for concurrent use.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	wake := q.Wake
	q.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// Drain runs the work queued before the call and returns how many ran.
func (q *Queue) Drain() int {
	q.mu.Lock()
	turn := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range turn {
		fn()
	}
	return len(turn)
}

// DrainAll runs turns until the queue is empty or max turns have run.
func (q *Queue) DrainAll(max int) int {
	total := 0
	for i := 0; i < max; i++ {
		n := q.Drain()
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Immediate runs posted work synchronously. It is only suitable where no
// separation between turns is needed.
type Immediate struct{}

// Post calls fn.
func (Immediate) Post(fn func()) {
	if fn != nil {
		fn()
	}
}
