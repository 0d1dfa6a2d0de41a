package domain

import "testing"

func TestCodeForKnownTokens(t *testing.T) {
	tests := map[ErrorToken]ErrorCode{
		TokenInvalidRequest: CodeInvalidRequest,
		TokenQueueFull:      CodeQueueFull,
		TokenParseError:     CodeParseError,
		TokenInternalError:  CodeInternalError,
		TokenCallbackFailed: CodeCallbackFailed,
	}
	for token, want := range tests {
		if got := CodeFor(token); got != want {
			t.Errorf("CodeFor(%q) = %d, want %d", token, got, want)
		}
	}
}

func TestCodeForUnknownTokenFallsBackToInvalidRequest(t *testing.T) {
	if got := CodeFor("missing_text"); got != CodeInvalidRequest {
		t.Errorf("CodeFor(missing_text) = %d, want %d", got, CodeInvalidRequest)
	}
	if got := CodeFor("missing_id"); got != CodeInvalidRequest {
		t.Errorf("CodeFor(missing_id) = %d, want %d", got, CodeInvalidRequest)
	}
}
