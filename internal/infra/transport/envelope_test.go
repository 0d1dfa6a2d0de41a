package transport

import (
	"testing"

	"github.com/granville-run/granville/internal/domain"
)

func TestDecodeRequestValid(t *testing.T) {
	b, _ := EncodeMap(map[string]any{
		"id":       "task-1",
		"text":     "hello world",
		"callback": "/tmp/cb.sock",
	})

	req, ferr := DecodeRequest(b)
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if req.ID != "task-1" || req.Text != "hello world" || req.Callback != "/tmp/cb.sock" {
		t.Errorf("unexpected request: %+v", req)
	}
	if !req.Ranked {
		t.Error("ranked should default to true")
	}
	if req.MaxTokens != domain.DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want default %d", req.MaxTokens, domain.DefaultMaxTokens)
	}
}

func TestDecodeRequestMissingFields(t *testing.T) {
	cases := []struct {
		name      string
		fields    map[string]any
		wantID    string
		wantToken domain.ErrorToken
	}{
		{
			name:      "missing id",
			fields:    map[string]any{"text": "x", "callback": "y"},
			wantID:    "unknown",
			wantToken: "missing_id",
		},
		{
			name:      "missing text",
			fields:    map[string]any{"id": "task-1", "callback": "y"},
			wantID:    "task-1",
			wantToken: "missing_text",
		},
		{
			name:      "missing callback",
			fields:    map[string]any{"id": "task-1", "text": "x"},
			wantID:    "task-1",
			wantToken: "missing_callback",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := EncodeMap(tc.fields)
			_, ferr := DecodeRequest(b)
			if ferr == nil {
				t.Fatal("expected an error")
			}
			if ferr.ID != tc.wantID || ferr.Token != tc.wantToken {
				t.Errorf("got {%s %s}, want {%s %s}", ferr.ID, ferr.Token, tc.wantID, tc.wantToken)
			}
		})
	}
}

func TestDecodeRequestUnparsableEnvelope(t *testing.T) {
	_, ferr := DecodeRequest([]byte{0xff, 0xff, 0xff})
	if ferr == nil || ferr.ID != "unknown" || ferr.Token != domain.TokenInvalidRequest {
		t.Fatalf("got %+v, want unknown/invalid_request", ferr)
	}
}

func TestDecodeRequestOptionalFields(t *testing.T) {
	b, _ := EncodeMap(map[string]any{
		"id":         "task-1",
		"text":       "x",
		"callback":   "y",
		"model_id":   uint64(7),
		"ranked":     false,
		"max_tokens": uint64(64),
	})
	req, ferr := DecodeRequest(b)
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if req.ModelID != 7 {
		t.Errorf("ModelID = %d, want 7", req.ModelID)
	}
	if req.Ranked {
		t.Error("ranked should be false")
	}
	if req.MaxTokens != 64 {
		t.Errorf("MaxTokens = %d, want 64", req.MaxTokens)
	}
}

func TestAckErrorResultEnvelopes(t *testing.T) {
	ack := Ack("task-1")
	if ack["id"] != "task-1" || ack["status"] != "accepted" {
		t.Errorf("unexpected ack: %+v", ack)
	}

	errEnv := Error("task-1", domain.TokenQueueFull)
	if errEnv["code"] != int(domain.CodeQueueFull) {
		t.Errorf("unexpected error envelope: %+v", errEnv)
	}

	result := Result("task-1", 2, `["hi"]`, domain.High)
	if result["tool_id"] != domain.ChatToolID || result["priority"] != "high" {
		t.Errorf("unexpected result envelope: %+v", result)
	}
}
