package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewInMemoryQueue[int](4)
	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Enqueue(ctx, i))
	}
	assert.Equal(t, 3, q.Size())

	for i := 1; i <= 3; i++ {
		got, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_Backpressure(t *testing.T) {
	q := NewInMemoryQueue[string](1)
	require.NoError(t, q.Enqueue(context.Background(), "a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Enqueue(ctx, "b"), context.DeadlineExceeded)
}

func TestInMemoryQueue_DequeueCancelled(t *testing.T) {
	q := NewInMemoryQueue[string](0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInMemoryQueue_ReadAllAndClose(t *testing.T) {
	ctx := context.Background()
	q := NewInMemoryQueue[int](0)
	require.NoError(t, q.Enqueue(ctx, 1))
	require.NoError(t, q.Enqueue(ctx, 2))
	assert.Equal(t, []int{1, 2}, q.ReadAllMessages())
	assert.Nil(t, q.ReadAllMessages())

	require.NoError(t, q.Enqueue(ctx, 3))
	q.ClearQueue()
	assert.Equal(t, 0, q.Size())

	q.Close()
	q.Close()
	assert.ErrorIs(t, q.Enqueue(ctx, 4), ErrClosed)
}
