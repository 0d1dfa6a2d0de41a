package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/granville-run/granville/internal/domain"
)

func TestRecordRankedIncrementsLabeledCounter(t *testing.T) {
	before := testutil.ToFloat64(RankedTotal.WithLabelValues("critical"))
	RecordRanked(domain.Critical)
	after := testutil.ToFloat64(RankedTotal.WithLabelValues("critical"))
	if after != before+1 {
		t.Errorf("RankedTotal[critical] = %v, want %v", after, before+1)
	}
}

func TestSampleQueuesSetsGauges(t *testing.T) {
	SampleQueues(3, 5)
	if got := testutil.ToFloat64(UnrankedDepth); got != 3 {
		t.Errorf("UnrankedDepth = %v, want 3", got)
	}
	if got := testutil.ToFloat64(RankedDepth); got != 5 {
		t.Errorf("RankedDepth = %v, want 5", got)
	}
}

func TestRecordTaskCompletedAndFailed(t *testing.T) {
	beforeOK := testutil.ToFloat64(TasksCompleted)
	RecordTaskCompleted()
	if got := testutil.ToFloat64(TasksCompleted); got != beforeOK+1 {
		t.Errorf("TasksCompleted = %v, want %v", got, beforeOK+1)
	}

	beforeFail := testutil.ToFloat64(TasksFailed.WithLabelValues(string(domain.TokenInternalError)))
	RecordTaskFailed(domain.TokenInternalError)
	if got := testutil.ToFloat64(TasksFailed.WithLabelValues(string(domain.TokenInternalError))); got != beforeFail+1 {
		t.Errorf("TasksFailed[internal_error] = %v, want %v", got, beforeFail+1)
	}
}
