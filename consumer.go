package soq

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var (
	ErrClosed = errors.New("consumer is closed")
)

// HandleFunc is called once per dequeued element, in enqueue order.
type HandleFunc[Element any] = func(ctx context.Context, element Element) error

// Consumer is a long-lived task draining a queue. A queue supports at most one active
// consumer; a second Consumer started on the same queue stops immediately.
type Consumer struct {
	closing *atomic.Bool
	stop    func()
	group   *errgroup.Group
}

// Consume starts a goroutine that drains queue and calls handle for every element. The
// goroutine stops when handle returns an error, when the consumer is closed, or when the
// queue refuses the read because another consumer is active.
func Consume[Element any](queue *Queue[Element], handle HandleFunc[Element]) *Consumer {
	ctx_, stop := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx_)

	group.Go(func() error {
		for element := range queue.All(ctx) {
			if err := handle(ctx, element); err != nil {
				return fmt.Errorf("handle element: %w", err)
			}
		}
		return nil
	})

	return &Consumer{
		closing: new(atomic.Bool),
		stop:    stop,
		group:   group,
	}
}

// Close stops the consumer and waits until its goroutine finishes. A consumer suspended on an
// empty queue is woken up and exits without consuming anything.
//
// Returns the error of the handle call that stopped the consumer, if any. Returns [ErrClosed]
// on repeated calls.
func (c *Consumer) Close() error {
	if c.closing.Swap(true) {
		return ErrClosed
	}

	c.stop()

	if err := c.group.Wait(); err != nil {
		return fmt.Errorf("consumer: %w", err)
	}

	return nil
}
