// Package app wires the connection handler (spec component H) to the
// unranked and ranked queues it feeds.
package app

import (
	"log"
	"net"

	"github.com/google/uuid"

	"github.com/granville-run/granville/internal/domain"
	"github.com/granville-run/granville/internal/infra/queue"
	"github.com/granville-run/granville/internal/infra/transport"
)

// Handler decodes request envelopes off accepted connections, acks them,
// and routes them into the unranked or ranked queue. It never blocks on
// ranking or inference — those happen later, on the ranker and worker
// goroutines.
type Handler struct {
	Unranked *queue.Unranked
	Ranked   *queue.Ranked
}

// Serve runs the accept loop on the calling goroutine until ln is closed.
// Per-connection errors never tear down the server; only a listener-level
// Accept error (e.g. the listener was closed) ends the loop.
func (h *Handler) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		h.handleConn(conn)
	}
}

func (h *Handler) handleConn(conn net.Conn) {
	defer conn.Close()

	// connID has no wire presence — it only correlates this connection's
	// log lines, since a submission's own id isn't known until decoded.
	connID := uuid.NewString()

	buf := make([]byte, transport.RequestWindow)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		if err != nil {
			log.Printf("[handler] %s: read failed: %v", connID, err)
		}
		return
	}

	// Keep only the bytes actually read, in a slice of their own.
	raw := append([]byte(nil), buf[:n]...)

	req, ferr := transport.DecodeRequest(raw)
	if ferr != nil {
		if ferr.ID == "unknown" && ferr.Token == domain.TokenInvalidRequest {
			writeEnvelope(connID, conn, transport.Error("unknown", domain.TokenInvalidRequest))
			return
		}
		// A missing required field: id is known (or "unknown" if id itself
		// was absent); no ack is sent, no task is created.
		writeEnvelope(connID, conn, transport.Error(ferr.ID, ferr.Token))
		return
	}

	// Every string field that crosses into a queued task must be an owned
	// copy by this point — req already holds independently-allocated Go
	// strings produced by the msgpack decoder, so no further duplication
	// is needed (unlike the teacher's C-ABI ancestor, Go strings decoded
	// from a buffer are never aliases into that buffer).
	if !writeEnvelope(connID, conn, transport.Ack(req.ID)) {
		return
	}

	h.route(req)
}

func (h *Handler) route(req transport.Request) {
	if req.Ranked {
		h.Unranked.Push(domain.UnrankedTask{
			ID:        req.ID,
			Payload:   req.Text,
			Callback:  req.Callback,
			ModelID:   req.ModelID,
			MaxTokens: req.MaxTokens,
		})
		return
	}

	// Direct-to-ranked submissions always use Normal, regardless of any
	// priority field a caller might (incorrectly) supply — see spec §9.
	err := h.Ranked.Push(domain.RankedTask{
		ID:        req.ID,
		Payload:   req.Text,
		Callback:  req.Callback,
		ModelID:   req.ModelID,
		MaxTokens: req.MaxTokens,
		Priority:  domain.Normal,
	})
	if err != nil {
		token := domain.TokenQueueFull
		if err != domain.ErrQueueFull {
			token = domain.TokenInternalError
		}
		transport.DeliverError(req.Callback, req.ID, token)
	}
}

func writeEnvelope(connID string, conn net.Conn, envelope map[string]any) bool {
	b, err := transport.EncodeMap(envelope)
	if err != nil {
		log.Printf("[handler] %s: encode failed: %v", connID, err)
		return false
	}
	if _, err := conn.Write(b); err != nil {
		log.Printf("[handler] %s: write failed: %v", connID, err)
		return false
	}
	return true
}
