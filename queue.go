package soq

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/mtln/soq/buffer"
)

// Queue is a FIFO buffer fed by any number of concurrent producers and drained by at most one
// active consumer. A consumer reading from an empty queue suspends until the next element is
// enqueued, which is then handed to it directly.
type Queue[Element any] struct {
	cfg *config[Element]

	// mu guards fifo and waiter. Everything that touches either happens inside it.
	mu     sync.Mutex
	fifo   *buffer.FIFO[Element]
	waiter chan Element
}

// New creates an empty queue.
func New[Element any](options ...Option[Element]) *Queue[Element] {
	cfg := newConfig(options...)
	return &Queue[Element]{
		cfg:  cfg,
		fifo: buffer.New[Element](cfg.capacity),
	}
}

// Enqueue adds an element to the queue. It never blocks and never fails.
//
// If a consumer is suspended on [Queue.Dequeue], the element is delivered to it directly and
// never touches the buffer. The buffer is guaranteed empty whenever a suspended consumer
// exists, so the handoff preserves FIFO order.
func (q *Queue[Element]) Enqueue(element Element) {
	q.mu.Lock()

	if waiter := q.waiter; waiter != nil {
		q.waiter = nil
		q.mu.Unlock()

		// The slot was cleared inside the critical section, so this is the only send that
		// will ever happen on this channel. Capacity 1 makes it non-blocking.
		waiter <- element

		q.cfg.metrics.enqueues.WithLabelValues("handoff").Inc()
		return
	}

	q.fifo.Enqueue(element)
	q.mu.Unlock()

	q.cfg.metrics.enqueues.WithLabelValues("buffered").Inc()
	q.cfg.metrics.depth.Inc()
}

// Dequeue removes and returns the front element, suspending until one is available if the
// queue is empty. There is no timeout: a suspended call waits for the next [Queue.Enqueue].
//
// It returns false in two cases, neither of which is a queue fault:
//   - another consumer is already suspended on this queue. Queueing a second waiter would
//     violate the single-consumer design, so the late caller is refused instead;
//   - ctx is cancelled while this call is suspended.
func (q *Queue[Element]) Dequeue(ctx context.Context) (Element, bool) {
	q.mu.Lock()

	if q.waiter != nil {
		q.mu.Unlock()
		q.cfg.metrics.rejects.Inc()
		var zero Element
		return zero, false
	}

	if element, ok := q.fifo.Dequeue(); ok {
		q.mu.Unlock()
		q.cfg.metrics.depth.Dec()
		q.cfg.metrics.dequeues.Inc()
		return element, true
	}

	waiter := make(chan Element, 1)
	q.waiter = waiter
	q.mu.Unlock()

	q.cfg.metrics.waits.Inc()
	started := time.Now()

	select {
	case element := <-waiter:
		q.cfg.metrics.waitDuration.Observe(time.Since(started).Seconds())
		q.cfg.metrics.dequeues.Inc()
		return element, true
	case <-ctx.Done():
	}

	// Cancelled. If the slot still holds this call's waiter, no producer has committed to it
	// and it can be discarded. Otherwise a producer has already claimed it and its send is
	// imminent or done: receive the element so it isn't lost.
	q.mu.Lock()
	if q.waiter == waiter {
		q.waiter = nil
		q.mu.Unlock()
		var zero Element
		return zero, false
	}
	q.mu.Unlock()

	element := <-waiter
	q.cfg.metrics.waitDuration.Observe(time.Since(started).Seconds())
	q.cfg.metrics.dequeues.Inc()
	return element, true
}

// RemoveAll discards every buffered element. It never blocks callers.
//
// A consumer suspended on [Queue.Dequeue] is not affected: it keeps waiting for the next
// enqueued element, unconcerned with the discarded backlog.
func (q *Queue[Element]) RemoveAll() {
	q.mu.Lock()
	dropped := q.fifo.Len()
	q.fifo.Reset()
	q.mu.Unlock()

	q.cfg.metrics.drops.Add(float64(dropped))
	q.cfg.metrics.depth.Sub(float64(dropped))
}

// Len returns the number of buffered elements. An element handed directly to a suspended
// consumer is never buffered, so a queue with a pending consumer always reports 0.
func (q *Queue[Element]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fifo.Len()
}

// All returns the queue's elements as a lazy sequence for a single long-lived consumer.
//
// Each step pulls one element via [Queue.Dequeue], suspending while the queue is empty. The
// sequence is unbounded: it stops only when another consumer is already draining the queue,
// or when ctx is cancelled while a step is suspended. Early termination is a policy outcome,
// not a queue fault.
//
// The sequence is not restartable. Ranging over the same queue again continues from the live
// backlog; consumed elements are never replayed.
//
// Constructing the sequence only captures the receiver; it takes no lock and never suspends.
func (q *Queue[Element]) All(ctx context.Context) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for {
			element, ok := q.Dequeue(ctx)
			if !ok {
				return
			}
			if !yield(element) {
				return
			}
		}
	}
}
