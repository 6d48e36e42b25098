package queue

import (
	"context"
	"sync"
)

const (
	// QueueBufferSize represents the default capacity of a queue
	QueueBufferSize = 1024
)

// InMemoryQueue implements a channel-backed queue.
type InMemoryQueue[T any] struct {
	ch    chan T
	done  chan struct{}
	once  sync.Once
	drain sync.Mutex
}

// NewInMemoryQueue creates a new queue. A size below one uses QueueBufferSize.
func NewInMemoryQueue[T any](size int) *InMemoryQueue[T] {
	if size < 1 {
		size = QueueBufferSize
	}
	return &InMemoryQueue[T]{
		ch:   make(chan T, size),
		done: make(chan struct{}),
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, item T) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- item:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue removes and returns the item from the front of the queue.
func (q *InMemoryQueue[T]) Dequeue(ctx context.Context) (T, error) {
	select {
	case item := <-q.ch:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Size returns the current size of the queue.
func (q *InMemoryQueue[T]) Size() int {
	return len(q.ch)
}

// ReadAllMessages reads all pending messages in the queue
func (q *InMemoryQueue[T]) ReadAllMessages() []T {
	q.drain.Lock()
	defer q.drain.Unlock()

	var messages []T
	for {
		select {
		case item := <-q.ch:
			messages = append(messages, item)
		default:
			return messages
		}
	}
}

// ClearQueue clears all messages from the queue.
func (q *InMemoryQueue[T]) ClearQueue() {
	q.ReadAllMessages()
}

// Close stops the queue accepting new items. Pending items can still be read.
func (q *InMemoryQueue[T]) Close() {
	q.once.Do(func() { close(q.done) })
}
