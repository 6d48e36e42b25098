package queue

import (
	"context"
	"errors"
)

// ErrClosed is returned when enqueueing onto a closed queue.
var ErrClosed = errors.New("queue closed")

// Queue represents a FIFO mailbox.
type Queue[T any] interface {
	// Enqueue blocks while the queue is full until ctx is done
	Enqueue(ctx context.Context, item T) error
	// Dequeue blocks until an item is available or ctx is done
	Dequeue(ctx context.Context) (T, error)
	Size() int
	ReadAllMessages() []T
	ClearQueue()
	Close()
}
