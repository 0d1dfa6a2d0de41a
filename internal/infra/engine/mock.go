package engine

import (
	"fmt"
	"sync"
)

// MockBackend implements Driver for testing without a real plugin. Each
// loaded handle can optionally block Generate on a gate channel (see Gate),
// which lets tests hold requests in flight deterministically.
type MockBackend struct {
	mu    sync.Mutex
	nextH uintptr
	gates map[Handle]chan struct{}

	// Echo, when true (the default), makes Generate return the prompt
	// verbatim; otherwise it returns Response.
	Echo     bool
	Response string
}

// NewMockBackend creates a MockBackend that echoes the prompt back.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		gates: make(map[Handle]chan struct{}),
		Echo:  true,
	}
}

func (m *MockBackend) LoadModel(path string) (Handle, error) {
	if path == "" {
		return 0, fmt.Errorf("empty model path")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextH++
	return Handle(m.nextH), nil
}

func (m *MockBackend) UnloadModel(Handle) {}

// Gate installs a closeable gate for handle: Generate on that handle blocks
// until the returned channel is closed.
func (m *MockBackend) Gate(h Handle) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.gates[h] = ch
	return ch
}

func (m *MockBackend) Generate(h Handle, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	gate := m.gates[h]
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if m.Echo {
		return prompt, nil
	}
	return m.Response, nil
}

func (m *MockBackend) Close() {}

// failBackend always fails to load; used to test Pool.Load error handling.
type failBackend struct{ MockBackend }

func (f *failBackend) LoadModel(string) (Handle, error) {
	return 0, fmt.Errorf("simulated load failure")
}
