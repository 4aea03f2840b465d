package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/id"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	first := id.New()
	second := id.New()

	q.Enqueue(first)
	q.Enqueue(second)
	require.Equal(t, 2, q.Len())

	got, ok := q.Dequeue(time.Second)
	require.True(t, ok)
	assert.Equal(t, first, got)

	got, ok = q.Dequeue(time.Second)
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DequeueTimesOutWhenEmpty(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	_, ok := q.Dequeue(20 * time.Millisecond)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestQueue_IgnoresNilIDs(t *testing.T) {
	q := NewQueue()
	q.Enqueue(id.Nil())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_WakesWaitingConsumer(t *testing.T) {
	q := NewQueue()
	companyID := id.New()

	done := make(chan id.ID, 1)
	go func() {
		got, ok := q.Dequeue(2 * time.Second)
		if ok {
			done <- got
		}
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Enqueue(companyID)

	select {
	case got := <-done:
		assert.Equal(t, companyID, got)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer was not woken")
	}
}
