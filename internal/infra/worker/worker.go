// Package worker implements the pool of symmetric dispatch workers: each
// pops the highest-priority ranked task, acquires a model, runs inference,
// and delivers the result.
package worker

import (
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/granville-run/granville/internal/domain"
	"github.com/granville-run/granville/internal/infra/engine"
	"github.com/granville-run/granville/internal/infra/metrics"
	"github.com/granville-run/granville/internal/infra/queue"
	"github.com/granville-run/granville/internal/infra/transport"
)

// idlePoll is how long a worker sleeps when the ranked queue is empty.
const idlePoll = 10 * time.Millisecond

// AuditSink records a completed task's outcome for the audit log. It is
// optional; a nil sink is a no-op.
type AuditSink interface {
	Record(id string, modelID int, priority domain.Priority, succeeded bool, duration time.Duration)
}

// Pool runs a configurable number of symmetric worker goroutines against a
// shared ranked queue and model pool.
type Pool struct {
	in      *queue.Ranked
	models  *engine.Pool
	audit   AuditSink
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a worker pool. audit may be nil.
func New(in *queue.Ranked, models *engine.Pool, audit AuditSink) *Pool {
	return &Pool{in: in, models: models, audit: audit}
}

// DefaultWorkerCount returns min(numModels, 8), the spec's default, and 1
// when numModels is zero or negative.
func DefaultWorkerCount(numModels int) int {
	if numModels <= 0 {
		return 1
	}
	if numModels > 8 {
		return 8
	}
	return numModels
}

// Start launches n worker goroutines.
func (p *Pool) Start(n int) {
	p.running.Store(true)
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.loop()
	}
}

// Stop signals all workers to exit after their current task and waits for
// them to finish.
func (p *Pool) Stop() {
	p.running.Store(false)
	p.wg.Wait()
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for p.running.Load() {
		task, ok := p.in.PopBest()
		if !ok {
			time.Sleep(idlePoll)
			continue
		}
		p.handle(task)
	}
}

func (p *Pool) handle(task domain.RankedTask) {
	start := time.Now()

	modelID, err := p.acquire(task.ModelID)
	if err != nil {
		transport.DeliverError(task.Callback, task.ID, domain.TokenInternalError)
		metrics.RecordTaskFailed(domain.TokenInternalError)
		p.record(task, 0, false, start)
		return
	}
	defer p.models.Release(modelID)

	maxTokens := task.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}

	resp, err := p.models.Generate(modelID, task.Payload, maxTokens)
	metrics.InferenceLatency.WithLabelValues(strconv.Itoa(modelID)).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("[worker] generate failed for %s: %v", task.ID, err)
		transport.DeliverError(task.Callback, task.ID, domain.TokenInternalError)
		metrics.RecordTaskFailed(domain.TokenInternalError)
		p.record(task, modelID, false, start)
		return
	}

	toolInput, ok := wrapAsJSONArray(resp)
	if !ok {
		transport.DeliverError(task.Callback, task.ID, domain.TokenInternalError)
		metrics.RecordTaskFailed(domain.TokenInternalError)
		p.record(task, modelID, false, start)
		return
	}

	transport.DeliverResult(task.Callback, task.ID, modelID, toolInput, task.Priority)
	metrics.RecordTaskCompleted()
	p.record(task, modelID, true, start)
}

// acquire resolves a model for the task: an explicit model id must exist in
// the pool, otherwise it's a direct error; absent an id, the least-busy
// model is used.
func (p *Pool) acquire(modelID int) (int, error) {
	if modelID != 0 {
		if !p.models.AcquireByID(modelID) {
			return 0, domain.ErrModelNotFound
		}
		return modelID, nil
	}
	id, ok := p.models.AcquireLeastBusy("")
	if !ok {
		return 0, domain.ErrPoolEmpty
	}
	return id, nil
}

func (p *Pool) record(task domain.RankedTask, modelID int, succeeded bool, start time.Time) {
	if p.audit == nil {
		return
	}
	p.audit.Record(task.ID, modelID, task.Priority, succeeded, time.Since(start))
}

// maxResultLen bounds the wrapped JSON array to avoid an unbounded
// allocation from a pathological or overlong generation.
const maxResultLen = transport.ResultWindow - 256

// wrapAsJSONArray produces the literal form ["<response>"] with embedded
// double-quotes, backslashes and control characters properly escaped
// (instead of naive string interpolation — see DESIGN.md for the
// decision). It returns false if the response is too large to fit the
// bounded result buffer.
func wrapAsJSONArray(resp string) (string, bool) {
	if len(resp) > maxResultLen {
		return "", false
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteByte('"')
	for _, r := range resp {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				const hexDigits = "0123456789abcdef"
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[r>>4])
				b.WriteByte(hexDigits[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	b.WriteByte(']')
	out := b.String()
	if len(out) > transport.ResultWindow {
		return "", false
	}
	return out, true
}
