package transport

import (
	"fmt"

	"github.com/granville-run/granville/internal/domain"
)

// Request is a decoded and validated submission envelope.
type Request struct {
	ID        string
	Text      string
	Callback  string
	ModelID   int // 0 means "any"
	Ranked    bool
	MaxTokens int
}

// DecodeRequest decodes a wire envelope and validates the required keys
// {id, text, callback}. A decode failure returns an error whose ID field is
// "unknown" (no envelope could be parsed at all); a missing-field failure
// returns whatever id was present, or "unknown" if id itself is missing.
func DecodeRequest(b []byte) (Request, *FieldError) {
	m, err := DecodeMap(b)
	if err != nil {
		return Request{}, &FieldError{ID: "unknown", Token: domain.TokenInvalidRequest}
	}

	id, _ := m["id"].(string)
	if id == "" {
		return Request{}, &FieldError{ID: "unknown", Token: "missing_id"}
	}

	text, ok := m["text"].(string)
	if !ok || text == "" {
		return Request{}, &FieldError{ID: id, Token: "missing_text"}
	}

	callback, ok := m["callback"].(string)
	if !ok || callback == "" {
		return Request{}, &FieldError{ID: id, Token: "missing_callback"}
	}

	req := Request{
		ID:        id,
		Text:      text,
		Callback:  callback,
		Ranked:    true,
		MaxTokens: domain.DefaultMaxTokens,
	}

	if v, ok := m["model_id"]; ok {
		req.ModelID = toInt(v)
	}
	if v, ok := m["ranked"]; ok {
		if b, ok := v.(bool); ok {
			req.Ranked = b
		}
	}
	if v, ok := m["max_tokens"]; ok {
		if n := toInt(v); n > 0 {
			req.MaxTokens = n
		}
	}

	return req, nil
}

// FieldError is an admission-time validation failure, carrying the id the
// decoder managed to recover (or "unknown") and the specific error token.
type FieldError struct {
	ID    string
	Token domain.ErrorToken
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.ID, e.Token)
}

// toInt coerces the numeric types msgpack decoding can produce for an
// unsigned integer field into an int.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Ack builds the {id, status:"accepted"} acknowledgement envelope.
func Ack(id string) map[string]any {
	return map[string]any{"id": id, "status": "accepted"}
}

// Error builds the {id, error, code} envelope for the given token.
func Error(id string, token domain.ErrorToken) map[string]any {
	return map[string]any{
		"id":    id,
		"error": string(token),
		"code":  int(domain.CodeFor(token)),
	}
}

// Result builds the {id, model_id, tool_id, tool_input_json, priority}
// envelope.
func Result(id string, modelID int, toolInputJSON string, priority domain.Priority) map[string]any {
	return map[string]any{
		"id":              id,
		"model_id":        modelID,
		"tool_id":         domain.ChatToolID,
		"tool_input_json": toolInputJSON,
		"priority":        priority.String(),
	}
}
