package transport

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := map[string]any{
		"id":       "task-1",
		"text":     "hello",
		"ranked":   true,
		"model_id": uint64(3),
	}
	b, err := EncodeMap(in)
	if err != nil {
		t.Fatalf("EncodeMap: %v", err)
	}

	out, err := DecodeMap(b)
	if err != nil {
		t.Fatalf("DecodeMap: %v", err)
	}
	if out["id"] != "task-1" {
		t.Errorf("id = %v, want task-1", out["id"])
	}
	if out["text"] != "hello" {
		t.Errorf("text = %v, want hello", out["text"])
	}
	if out["ranked"] != true {
		t.Errorf("ranked = %v, want true", out["ranked"])
	}
}

func TestDecodeMapRejectsEmpty(t *testing.T) {
	if _, err := DecodeMap(nil); err == nil {
		t.Error("expected error decoding empty input")
	}
}

func TestDecodeMapRejectsNonMap(t *testing.T) {
	b, err := EncodeMap(nil)
	if err != nil {
		t.Fatalf("EncodeMap: %v", err)
	}
	if _, err := DecodeMap(b); err == nil {
		t.Error("expected error decoding a nil-map envelope")
	}
}
