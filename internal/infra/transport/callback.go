package transport

import (
	"log"

	"github.com/granville-run/granville/internal/domain"
)

// Deliver opens an outbound connection to endpoint, writes a single
// encoded envelope, and closes. Delivery is best-effort one-shot — there is
// no read-back and no retry. A connection or write failure is returned to
// the caller (DeliverError and DeliverResult log it); it is the caller's
// responsibility to decide whether a failed Result delivery should also
// attempt an Error delivery (see DeliverResult).
func Deliver(endpoint string, envelope map[string]any) error {
	b, err := EncodeMap(envelope)
	if err != nil {
		return err
	}

	conn, err := Dial(endpoint)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(b); err != nil {
		return err
	}
	return nil
}

// DeliverError builds and delivers an Error envelope, logging (but not
// retrying) any failure to reach the callback endpoint.
func DeliverError(endpoint, id string, token domain.ErrorToken) {
	if err := Deliver(endpoint, Error(id, token)); err != nil {
		log.Printf("[callback] failed to deliver error %s to %s for %s: %v", token, endpoint, id, err)
	}
}

// DeliverResult builds and delivers a Result envelope. If delivery fails,
// it is logged and dropped — per spec §7, a callback-delivery failure is
// not retried and is not re-reported as a second error frame (there is
// nowhere left to send it).
func DeliverResult(endpoint, id string, modelID int, toolInputJSON string, priority domain.Priority) {
	envelope := Result(id, modelID, toolInputJSON, priority)
	if err := Deliver(endpoint, envelope); err != nil {
		log.Printf("[callback] %v: %s", domain.ErrCallbackFailed, err)
	}
}
