package engine

import "testing"

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"model.gguf", false},
		{"inference:model.gguf", false},
		{"inference:3:model.gguf", false},
		{"bogus:model.gguf", true},
		{"inference:notanumber:model.gguf", true},
		{"a:b:c:d", true},
	}
	for _, tt := range tests {
		_, err := ParseSpec(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestParseSpecFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"model.gguf", "inference:model.gguf", "inference:3:model.gguf"} {
		spec, err := ParseSpec(in)
		if err != nil {
			t.Fatalf("ParseSpec(%q) error: %v", in, err)
		}
		got := spec.Format()
		if got != in {
			t.Errorf("Format() = %q, want %q", got, in)
		}
	}
}
