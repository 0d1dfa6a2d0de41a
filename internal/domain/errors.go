package domain

import "errors"

// ─── Sentinel errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Admission errors (reported synchronously, no task is created).
	ErrInvalidRequest = errors.New("malformed envelope or missing required field")
	ErrQueueFull      = errors.New("admission limit reached")

	// Post-ack errors (reported asynchronously via the callback).
	ErrParseError     = errors.New("model output could not be parsed as a tool call")
	ErrInternalError  = errors.New("inference failed, response overflow, or enqueue failure")
	ErrCallbackFailed = errors.New("could not deliver to the callback endpoint")

	// Pool / backend errors.
	ErrModelNotFound      = errors.New("model not found")
	ErrPoolEmpty          = errors.New("no model available in the pool")
	ErrModelLoadFailed    = errors.New("model_load_failed")
	ErrPathTooLong        = errors.New("path_too_long")
	ErrPromptTooLong      = errors.New("prompt_too_long")
	ErrResponseOverflow   = errors.New("response exceeded the bounded generation buffer")

	// Fatal startup errors.
	ErrDriverLoadFailed = errors.New("failed to load the inference driver")
	ErrSocketBindFailed = errors.New("failed to bind the IPC listener")
)

// ErrorCode is one of the closed, stable numeric error codes from the wire
// protocol's Error envelope.
type ErrorCode int

const (
	CodeInvalidRequest ErrorCode = 400
	CodeQueueFull       ErrorCode = 429
	CodeParseError      ErrorCode = 422
	CodeInternalError   ErrorCode = 500
	CodeCallbackFailed  ErrorCode = 502
)

// ErrorToken is the short stable string carried alongside ErrorCode in an
// Error envelope.
type ErrorToken string

const (
	TokenInvalidRequest ErrorToken = "invalid_request"
	TokenQueueFull      ErrorToken = "queue_full"
	TokenParseError     ErrorToken = "parse_error"
	TokenInternalError  ErrorToken = "internal_error"
	TokenCallbackFailed ErrorToken = "callback_failed"
)

// CodeFor maps an error token to its stable numeric code. The five tokens
// in the wire protocol's closed set map to their documented codes; a
// connection handler may also emit a more specific admission-time token
// (e.g. "missing_text") to describe which required field was absent — those
// still carry the 400 (invalid_request) code.
func CodeFor(token ErrorToken) ErrorCode {
	switch token {
	case TokenInvalidRequest:
		return CodeInvalidRequest
	case TokenQueueFull:
		return CodeQueueFull
	case TokenParseError:
		return CodeParseError
	case TokenInternalError:
		return CodeInternalError
	case TokenCallbackFailed:
		return CodeCallbackFailed
	default:
		return CodeInvalidRequest
	}
}
