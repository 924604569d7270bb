package gateway

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDispatchQueuePreservesOrder(t *testing.T) {
	q := newDispatchQueue()
	defer q.Close()

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		q.Enqueue(func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestDispatchQueueDrainsOnClose(t *testing.T) {
	q := newDispatchQueue()

	done := make(chan struct{})
	q.Enqueue(func() { time.Sleep(10 * time.Millisecond) })
	q.Enqueue(func() { close(done) })
	q.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queued task did not run after close")
	}
}

func TestDispatchQueueDropsAfterClose(t *testing.T) {
	q := newDispatchQueue()
	q.Close()

	// Close returns with done already closed, so every later Enqueue must
	// drop even though the buffer has room for all of these.
	ran := make(chan struct{}, dispatchQueueDepth)
	for i := 0; i < dispatchQueueDepth; i++ {
		q.Enqueue(func() { ran <- struct{}{} })
	}

	select {
	case <-ran:
		t.Fatal("task ran after close")
	case <-time.After(50 * time.Millisecond):
	}
}
