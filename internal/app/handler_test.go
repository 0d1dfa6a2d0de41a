package app

import (
	"net"
	"testing"
	"time"

	"github.com/granville-run/granville/internal/domain"
	"github.com/granville-run/granville/internal/infra/queue"
	"github.com/granville-run/granville/internal/infra/transport"
)

func TestHandleConnAcksAndRoutesToUnranked(t *testing.T) {
	unranked := queue.NewUnranked()
	ranked := queue.NewRanked(0)
	h := &Handler{Unranked: unranked, Ranked: ranked}

	client, server := net.Pipe()
	defer client.Close()

	b, _ := transport.EncodeMap(map[string]any{
		"id":       "task-1",
		"text":     "hello",
		"callback": "/tmp/cb.sock",
	})

	done := make(chan struct{})
	go func() {
		h.handleConn(server)
		close(done)
	}()

	if _, err := client.Write(b); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, transport.RequestWindow)
	client.SetReadDeadline(time.Now().Add(time.Second))
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read ack: %v", err)
	}
	ack, err := transport.DecodeMap(buf[:n])
	if err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack["id"] != "task-1" || ack["status"] != "accepted" {
		t.Errorf("unexpected ack: %+v", ack)
	}

	<-done

	if unranked.Len() != 1 {
		t.Errorf("unranked.Len() = %d, want 1", unranked.Len())
	}
}

func TestHandleConnRejectsMissingField(t *testing.T) {
	unranked := queue.NewUnranked()
	ranked := queue.NewRanked(0)
	h := &Handler{Unranked: unranked, Ranked: ranked}

	client, server := net.Pipe()
	defer client.Close()

	b, _ := transport.EncodeMap(map[string]any{"id": "task-1", "text": "hello"})

	go h.handleConn(server)

	if _, err := client.Write(b); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, transport.RequestWindow)
	client.SetReadDeadline(time.Now().Add(time.Second))
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read error envelope: %v", err)
	}
	resp, err := transport.DecodeMap(buf[:n])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "missing_callback" {
		t.Errorf("error = %v, want missing_callback", resp["error"])
	}

	if unranked.Len() != 0 {
		t.Error("no task should have been enqueued")
	}
}

func TestRouteDirectToRankedForcesNormalPriority(t *testing.T) {
	unranked := queue.NewUnranked()
	ranked := queue.NewRanked(0)
	h := &Handler{Unranked: unranked, Ranked: ranked}

	h.route(transport.Request{ID: "t1", Text: "x", Callback: "/tmp/cb", Ranked: false})

	task, ok := ranked.PopBest()
	if !ok {
		t.Fatal("expected a ranked task")
	}
	if task.Priority != domain.Normal {
		t.Errorf("Priority = %v, want Normal", task.Priority)
	}
}
