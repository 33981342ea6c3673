package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordsAndExposes(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest("GET", "/api/tenders", 200, 5*time.Millisecond)
	m.ObserveAI("summarize", "offline", "ok", time.Millisecond)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.DraftSaved(true)
	m.Submitted()

	if got := testutil.ToFloat64(m.SummaryCache.WithLabelValues("miss")); got != 2 {
		t.Fatalf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Submissions); got != 1 {
		t.Fatalf("submissions = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `tenderly_http_requests_total{method="GET",route="/api/tenders",status="200"} 1`) {
		t.Fatalf("exposition missing request counter:\n%s", body)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	m.ObserveAI("summarize", "offline", "ok", time.Millisecond)
	m.CacheLookup(true)
	m.DraftSaved(false)
	m.Submitted()
}
