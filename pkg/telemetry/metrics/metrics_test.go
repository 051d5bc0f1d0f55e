package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordExecution(t *testing.T) {
	c := NewCollector("bakery")

	c.RecordExecution("allowed", 5*time.Millisecond)
	c.RecordExecution("allowed", 7*time.Millisecond)
	c.RecordExecution("checks_failed", time.Millisecond)

	if got := testutil.ToFloat64(c.executionsTotal.WithLabelValues("allowed")); got != 2 {
		t.Errorf("allowed executions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.executionsTotal.WithLabelValues("checks_failed")); got != 1 {
		t.Errorf("checks_failed executions = %v, want 1", got)
	}
}

func TestRecordParseFailuresIgnoresZero(t *testing.T) {
	c := NewCollector("bakery")

	c.RecordParseFailures("verifier", 0)
	c.RecordParseFailures("block", 3)

	if got := testutil.ToFloat64(c.parseFailuresTotal.WithLabelValues("block")); got != 3 {
		t.Errorf("block parse failures = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.parseFailuresTotal.WithLabelValues("verifier")); got != 0 {
		t.Errorf("verifier parse failures = %v, want 0", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	c := NewCollector("bakery")
	c.RecordSnippetOp("create", "ok")
	c.RecordSampleReload()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "bakery_snippet_operations_total") {
		t.Error("metrics output missing snippet counter")
	}
	if !strings.Contains(body, "bakery_sample_reloads_total 1") {
		t.Error("metrics output missing sample reload counter")
	}
}
