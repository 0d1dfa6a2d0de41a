// Package metrics provides Prometheus metrics for the kernel: queue
// depth, worker throughput, model load, and ranking outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/granville-run/granville/internal/domain"
)

// ─── Queues ─────────────────────────────────────────────────────────────────

// UnrankedDepth tracks the number of tasks waiting to be ranked.
var UnrankedDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "granville",
	Name:      "unranked_queue_depth",
	Help:      "Number of tasks waiting in the unranked queue.",
})

// RankedDepth tracks the number of tasks waiting for a worker.
var RankedDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "granville",
	Name:      "ranked_queue_depth",
	Help:      "Number of tasks waiting in the ranked queue.",
})

// ─── Ranking ────────────────────────────────────────────────────────────────

// RankedTotal tracks tasks ranked, by assigned priority.
var RankedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "granville",
	Name:      "ranked_total",
	Help:      "Total tasks classified, by assigned priority.",
}, []string{"priority"})

// RankingLatency tracks time spent in the ranker's classify step.
var RankingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "granville",
	Name:      "ranking_latency_seconds",
	Help:      "Time spent classifying a task's priority.",
	Buckets:   prometheus.DefBuckets,
})

// ─── Tasks ──────────────────────────────────────────────────────────────────

// TasksCompleted tracks tasks that produced a result.
var TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "granville",
	Name:      "tasks_completed_total",
	Help:      "Total tasks that completed successfully.",
})

// TasksFailed tracks tasks that ended in an error token, by token.
var TasksFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "granville",
	Name:      "tasks_failed_total",
	Help:      "Total tasks that ended in an error, by error token.",
}, []string{"token"})

// InferenceLatency tracks worker-side generation duration, by model.
var InferenceLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "granville",
	Name:      "inference_latency_seconds",
	Help:      "Inference request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"model"})

// ─── Pool ───────────────────────────────────────────────────────────────────

// ModelsLoaded tracks the number of models currently loaded in the pool.
var ModelsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "granville",
	Name:      "models_loaded",
	Help:      "Number of models currently loaded.",
})

// ActiveRequests tracks the sum of in-flight requests across all models.
var ActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "granville",
	Name:      "active_requests",
	Help:      "Sum of active requests across all loaded models.",
})

// ─── Recording helpers ──────────────────────────────────────────────────────

// SampleQueues sets the queue depth gauges. Called periodically by the
// daemon, since neither queue pushes its own depth on every mutation.
func SampleQueues(unrankedDepth, rankedDepth int) {
	UnrankedDepth.Set(float64(unrankedDepth))
	RankedDepth.Set(float64(rankedDepth))
}

// SamplePool sets the pool occupancy gauges.
func SamplePool(modelsLoaded int, activeRequests int) {
	ModelsLoaded.Set(float64(modelsLoaded))
	ActiveRequests.Set(float64(activeRequests))
}

// RecordRanked increments the ranked-by-priority counter.
func RecordRanked(p domain.Priority) {
	RankedTotal.WithLabelValues(p.String()).Inc()
}

// RecordTaskCompleted increments the completed-task counter.
func RecordTaskCompleted() {
	TasksCompleted.Inc()
}

// RecordTaskFailed increments the failed-task counter for the given error
// token.
func RecordTaskFailed(token domain.ErrorToken) {
	TasksFailed.WithLabelValues(string(token)).Inc()
}
