package queue

import (
	"testing"

	"github.com/granville-run/granville/internal/domain"
)

func TestRanked_PopBestEmpty(t *testing.T) {
	q := NewRanked(0)
	if _, ok := q.PopBest(); ok {
		t.Error("PopBest() on empty queue should return false")
	}
}

func TestRanked_StrongerPriorityFirst(t *testing.T) {
	q := NewRanked(0)
	q.Push(domain.RankedTask{ID: "low", Priority: domain.Low})
	q.Push(domain.RankedTask{ID: "critical", Priority: domain.Critical})
	q.Push(domain.RankedTask{ID: "normal", Priority: domain.Normal})

	order := []string{"critical", "normal", "low"}
	for _, want := range order {
		got, ok := q.PopBest()
		if !ok || got.ID != want {
			t.Fatalf("PopBest() = (%q, %v), want %q", got.ID, ok, want)
		}
	}
}

func TestRanked_EqualPriorityArrivalOrder(t *testing.T) {
	q := NewRanked(0)
	q.Push(domain.RankedTask{ID: "first", Priority: domain.Normal})
	q.Push(domain.RankedTask{ID: "second", Priority: domain.Normal})

	first, _ := q.PopBest()
	second, _ := q.PopBest()
	if first.ID != "first" || second.ID != "second" {
		t.Errorf("got %q, %q; want first, second", first.ID, second.ID)
	}
}

func TestRanked_QueueFullRejectsWithoutMutation(t *testing.T) {
	q := NewRanked(2)
	if err := q.Push(domain.RankedTask{ID: "a"}); err != nil {
		t.Fatalf("Push(a) error: %v", err)
	}
	if err := q.Push(domain.RankedTask{ID: "b"}); err != nil {
		t.Fatalf("Push(b) error: %v", err)
	}
	if err := q.Push(domain.RankedTask{ID: "c"}); err != domain.ErrQueueFull {
		t.Fatalf("Push(c) error = %v, want ErrQueueFull", err)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (rejected push must not mutate)", q.Len())
	}
}

func TestRanked_DefaultMaxSize(t *testing.T) {
	q := NewRanked(0)
	if q.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want %d", q.maxSize, DefaultMaxSize)
	}
}
