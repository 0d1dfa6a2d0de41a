package queue

import (
	"container/heap"
	"sync"

	"github.com/granville-run/granville/internal/domain"
)

// DefaultMaxSize bounds ranked-queue occupancy when the caller doesn't
// configure one explicitly.
const DefaultMaxSize = 1000

// Ranked is a mutex-guarded priority queue ordered by (priority ascending,
// arrival-sequence ascending). Push assigns the next arrival-sequence under
// the lock, so a task that ranks quickly can legitimately overtake one
// submitted earlier but still mid-ranking.
type Ranked struct {
	mu      sync.Mutex
	h       taskHeap
	arrival uint64
	maxSize int
}

// NewRanked creates a ranked queue bounded at maxSize entries. A maxSize of
// 0 applies DefaultMaxSize.
func NewRanked(maxSize int) *Ranked {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	q := &Ranked{maxSize: maxSize}
	heap.Init(&q.h)
	return q
}

// Push assigns the next arrival sequence and inserts task. It returns
// domain.ErrQueueFull without mutating the queue if it is already at
// capacity.
func (q *Ranked) Push(task domain.RankedTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) >= q.maxSize {
		return domain.ErrQueueFull
	}
	q.arrival++
	task.Arrival = q.arrival
	heap.Push(&q.h, task)
	return nil
}

// PopBest removes and returns the strongest-priority, earliest-arrival
// task, or false if the queue is empty.
func (q *Ranked) PopBest() (domain.RankedTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) == 0 {
		return domain.RankedTask{}, false
	}
	task := heap.Pop(&q.h).(domain.RankedTask)
	return task, true
}

// Len returns the number of queued tasks.
func (q *Ranked) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.h)
}

// taskHeap implements container/heap.Interface over RankedTask, ordering by
// priority then arrival sequence.
type taskHeap []domain.RankedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Arrival < h[j].Arrival
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(domain.RankedTask))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
