package gateway

import "sync"

const dispatchQueueDepth = 64

// dispatchQueue runs one socket's events in arrival order on a dedicated
// goroutine. A slow event on one socket never blocks another socket's queue;
// a full queue applies backpressure to that socket only.
type dispatchQueue struct {
	tasks     chan func()
	closeOnce sync.Once
	done      chan struct{}
}

func newDispatchQueue() *dispatchQueue {
	q := &dispatchQueue{
		tasks: make(chan func(), dispatchQueueDepth),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *dispatchQueue) run() {
	for {
		select {
		case task := <-q.tasks:
			task()
		case <-q.done:
			// Drain what was enqueued before close so a disconnect event
			// queued behind in-flight work still runs.
			for {
				select {
				case task := <-q.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// Enqueue schedules a task after everything already queued for this socket.
// It blocks when the queue is full and drops the task once closed.
func (q *dispatchQueue) Enqueue(task func()) {
	// Checked first on its own so a task enqueued after Close is always
	// dropped, even while the buffer still has space.
	select {
	case <-q.done:
		return
	default:
	}
	select {
	case <-q.done:
	case q.tasks <- task:
	}
}

// Close stops the queue after draining pending tasks.
func (q *dispatchQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}
