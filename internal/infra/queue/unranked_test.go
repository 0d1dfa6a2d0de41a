package queue

import (
	"testing"

	"github.com/granville-run/granville/internal/domain"
)

func TestUnranked_FIFOOrder(t *testing.T) {
	q := NewUnranked()
	q.Push(domain.UnrankedTask{ID: "a"})
	q.Push(domain.UnrankedTask{ID: "b"})
	q.Push(domain.UnrankedTask{ID: "c"})

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() returned false, want task %q", want)
		}
		if got.ID != want {
			t.Errorf("Pop() = %q, want %q", got.ID, want)
		}
	}
}

func TestUnranked_PopEmpty(t *testing.T) {
	q := NewUnranked()
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue should return false")
	}
}

func TestUnranked_Len(t *testing.T) {
	q := NewUnranked()
	q.Push(domain.UnrankedTask{ID: "a"})
	q.Push(domain.UnrankedTask{ID: "b"})
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	q.Pop()
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}
