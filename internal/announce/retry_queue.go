package announce

import (
	"sync"
	"time"
)

// retryQueue holds jobs waiting out their backoff. Timers still pending when
// the manager stops are cancelled and their jobs reported to onStop.
type retryQueue struct {
	out    chan<- pushJob
	done   <-chan struct{}
	onStop func(pushJob)

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]pendingRetry
}

type pendingRetry struct {
	timer *time.Timer
	job   pushJob
}

func newRetryQueue(out chan<- pushJob, done <-chan struct{}, onStop func(pushJob)) *retryQueue {
	return &retryQueue{out: out, done: done, onStop: onStop, pending: map[uint64]pendingRetry{}}
}

func (q *retryQueue) Enqueue(job pushJob, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case <-q.done:
		q.onStop(job)
		return
	default:
	}
	q.nextID++
	id := q.nextID
	q.pending[id] = pendingRetry{job: job, timer: time.AfterFunc(delay, func() { q.fire(id) })}
	metricRetryPending.Set(int64(len(q.pending)))
}

// Len is the number of jobs waiting on a timer.
func (q *retryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *retryQueue) fire(id uint64) {
	q.mu.Lock()
	p, ok := q.pending[id]
	delete(q.pending, id)
	metricRetryPending.Set(int64(len(q.pending)))
	q.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-q.done:
		q.onStop(p.job)
	case q.out <- p.job:
		metricPushQueueLen.Set(int64(len(q.out)))
	}
}

func (q *retryQueue) cancelOnStop() {
	<-q.done
	q.mu.Lock()
	stopped := make([]pushJob, 0, len(q.pending))
	for id, p := range q.pending {
		// A timer that already fired finds done closed in fire.
		if p.timer.Stop() {
			stopped = append(stopped, p.job)
			delete(q.pending, id)
		}
	}
	metricRetryPending.Set(int64(len(q.pending)))
	q.mu.Unlock()
	for _, job := range stopped {
		q.onStop(job)
	}
}
