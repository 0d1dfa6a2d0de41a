package engine

import (
	"fmt"
	"sync"

	"github.com/granville-run/granville/internal/domain"
)

// Driver is the minimal backend surface the pool depends on. Backend
// implements it against the real plugin ABI; MockBackend implements it for
// tests.
type Driver interface {
	LoadModel(path string) (Handle, error)
	UnloadModel(Handle)
	Generate(h Handle, prompt string, maxTokens int) (string, error)
	Close()
}

// entry is one loaded model. active is mutated under Pool.mu only — it is
// never decremented below zero and the handle is released exactly once,
// at teardown.
type entry struct {
	id     int
	typ    domain.ModelType
	path   string
	handle Handle
	active uint
}

// Pool owns every loaded Model and serializes both the model list and each
// model's active-request counter behind a single mutex. Holding the lock
// across "find the least-busy entry" and "claim it" is required — releasing
// between those steps would let two workers pick the same model.
type Pool struct {
	mu      sync.Mutex
	driver  Driver
	entries []*entry
	nextID  int
}

// NewPool creates an empty pool bound to driver.
func NewPool(driver Driver) *Pool {
	return &Pool{driver: driver, nextID: 1}
}

// Load asks the backend to load spec.Path and appends the resulting entry.
// A load failure leaves the pool unchanged. If spec.ID collides with an
// auto-assigned id, future auto-assignment advances past it.
func (p *Pool) Load(spec Spec) (domain.ModelInfo, error) {
	handle, err := p.driver.LoadModel(spec.Path)
	if err != nil {
		return domain.ModelInfo{}, fmt.Errorf("load model %q: %w", spec.Path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id := spec.ID
	if id == 0 {
		id = p.nextID
	}
	if id >= p.nextID {
		p.nextID = id + 1
	}

	typ := spec.Type
	if typ == "" {
		typ = domain.ModelUnassigned
	}

	e := &entry{id: id, typ: typ, path: spec.Path, handle: handle}
	p.entries = append(p.entries, e)
	return domain.ModelInfo{ID: e.id, Type: e.typ, Path: e.path}, nil
}

// GetByID returns the model with the given id, or false if none matches.
func (p *Pool) GetByID(id int) (domain.ModelInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.id == id {
			return toInfo(e), true
		}
	}
	return domain.ModelInfo{}, false
}

// AcquireLeastBusy scans all entries (optionally filtered by type — an
// empty typ means no filter, and ModelUnassigned entries always match any
// filter), picks the minimum active-requests entry breaking ties by
// insertion order, and atomically increments its counter before releasing
// the lock.
func (p *Pool) AcquireLeastBusy(typ domain.ModelType) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var best *entry
	for _, e := range p.entries {
		if typ != "" && e.typ != domain.ModelUnassigned && e.typ != typ {
			continue
		}
		if best == nil || e.active < best.active {
			best = e
		}
	}
	if best == nil {
		return 0, false
	}
	best.active++
	return best.id, true
}

// AcquireByID increments the named model's active-requests counter and
// returns false if no model with that id is loaded.
func (p *Pool) AcquireByID(id int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.id == id {
			e.active++
			return true
		}
	}
	return false
}

// Release decrements the named model's active-requests counter, saturating
// at zero.
func (p *Pool) Release(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.id == id && e.active > 0 {
			e.active--
			return
		}
	}
}

// Generate runs inference on the given model id.
func (p *Pool) Generate(id int, prompt string, maxTokens int) (string, error) {
	p.mu.Lock()
	var h Handle
	found := false
	for _, e := range p.entries {
		if e.id == id {
			h, found = e.handle, true
			break
		}
	}
	p.mu.Unlock()
	if !found {
		return "", domain.ErrModelNotFound
	}
	return p.driver.Generate(h, prompt, maxTokens)
}

// Count returns the number of loaded models.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Models returns read-only metadata for every loaded model, in load order.
func (p *Pool) Models() []domain.ModelInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ModelInfo, len(p.entries))
	for i, e := range p.entries {
		out[i] = toInfo(e)
	}
	return out
}

// Teardown unloads every model via the backend. Safe to call after partial
// initialization (an empty pool unloads nothing).
func (p *Pool) Teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		p.driver.UnloadModel(e.handle)
	}
	p.entries = nil
	p.driver.Close()
}

func toInfo(e *entry) domain.ModelInfo {
	return domain.ModelInfo{ID: e.id, Type: e.typ, Path: e.path, ActiveRequests: e.active}
}
