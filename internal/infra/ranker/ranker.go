// Package ranker implements the classification stage that sits between the
// unranked FIFO and the ranked priority queue.
package ranker

import (
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/granville-run/granville/internal/domain"
	"github.com/granville-run/granville/internal/infra/engine"
	"github.com/granville-run/granville/internal/infra/metrics"
	"github.com/granville-run/granville/internal/infra/queue"
	"github.com/granville-run/granville/internal/infra/transport"
)

// idlePoll is how long the loop sleeps when the unranked queue is empty.
const idlePoll = 10 * time.Millisecond

// promptTemplate is prepended to the task payload before classification.
// The PRIORITY line is parsed; the REDACTED line is generated but, to match
// the documented current behavior (see spec §4.F / §9), never substituted
// into the payload forwarded to the worker.
const promptTemplate = `Classify the urgency of the following message and redact any personally identifying information.
Respond with exactly two lines:
PRIORITY: one of CRITICAL, HIGH, NORMAL, LOW
REDACTED: the message with PII replaced by [EMAIL], [PHONE], [SSN], [NAME], [ADDRESS], [CARD]

MESSAGE:
`

// Loop ranks unranked tasks using the model pool, then pushes them to the
// ranked queue. Classification failures degrade to Normal rather than
// dropping the task — ranking is best-effort.
type Loop struct {
	in      *queue.Unranked
	out     *queue.Ranked
	pool    *engine.Pool
	running atomic.Bool
}

// New creates a ranker loop reading from in and writing to out.
func New(in *queue.Unranked, out *queue.Ranked, pool *engine.Pool) *Loop {
	return &Loop{in: in, out: out, pool: pool}
}

// Run processes tasks until Stop is called. Each cycle: pop, classify,
// push. An unranked task that fails to push (queue_full or otherwise) is
// answered with an Error frame and discarded rather than retried.
func (l *Loop) Run() {
	l.running.Store(true)
	for l.running.Load() {
		task, ok := l.in.Pop()
		if !ok {
			time.Sleep(idlePoll)
			continue
		}
		l.rank(task)
	}
}

// Stop signals the loop to exit after its current task finishes.
func (l *Loop) Stop() { l.running.Store(false) }

func (l *Loop) rank(task domain.UnrankedTask) {
	start := time.Now()
	priority := l.classify(task)
	metrics.RankingLatency.Observe(time.Since(start).Seconds())
	metrics.RecordRanked(priority)

	ranked := domain.RankedTask{
		ID:        task.ID,
		Payload:   task.Payload,
		Callback:  task.Callback,
		ModelID:   task.ModelID,
		MaxTokens: task.MaxTokens,
		Priority:  priority,
	}

	if err := l.out.Push(ranked); err != nil {
		token := domain.TokenQueueFull
		if err != domain.ErrQueueFull {
			token = domain.TokenInternalError
		}
		transport.DeliverError(task.Callback, task.ID, token)
		log.Printf("[ranker] dropped task %s after enqueue failure: %v", task.ID, err)
	}
}

// classify invokes the pool to obtain a priority token. Inference failure
// is not propagated — the task still proceeds, just at Normal priority.
func (l *Loop) classify(task domain.UnrankedTask) domain.Priority {
	id, ok := l.pool.AcquireLeastBusy("")
	if !ok {
		return domain.Normal
	}
	defer l.pool.Release(id)

	prompt := promptTemplate + task.Payload
	resp, err := l.pool.Generate(id, prompt, domain.RankingMaxTokens)
	if err != nil {
		log.Printf("[ranker] classification failed for %s, defaulting to normal: %v", task.ID, err)
		return domain.Normal
	}
	return parsePriority(resp)
}

// parsePriority uppercase-folds the first 64 bytes of resp and searches for
// CRITICAL, HIGH, LOW in that order; the first match wins, otherwise Normal.
func parsePriority(resp string) domain.Priority {
	window := resp
	if len(window) > 64 {
		window = window[:64]
	}
	window = strings.ToUpper(window)

	switch {
	case strings.Contains(window, "CRITICAL"):
		return domain.Critical
	case strings.Contains(window, "HIGH"):
		return domain.High
	case strings.Contains(window, "LOW"):
		return domain.Low
	default:
		return domain.Normal
	}
}
