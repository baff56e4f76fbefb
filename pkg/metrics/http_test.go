package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("/api/v1/cart", "GET", 200, 25*time.Millisecond)
	m.ObserveRequest("/api/v1/cart", "GET", 502, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/cart", "GET", "2xx")); got != 1 {
		t.Fatalf("expected one 2xx observation, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/cart", "GET", "5xx")); got != 1 {
		t.Fatalf("expected one 5xx observation, got %v", got)
	}
}

func TestIncUpstream(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.IncUpstream("commerce", nil)
	m.IncUpstream("commerce", errors.New("boom"))
	m.IncUpstream("", nil)

	if got := testutil.ToFloat64(m.upstream.WithLabelValues("commerce", "ok")); got != 1 {
		t.Fatalf("expected one ok outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.upstream.WithLabelValues("commerce", "error")); got != 1 {
		t.Fatalf("expected one error outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.upstream.WithLabelValues("unknown", "ok")); got != 1 {
		t.Fatalf("expected empty target to normalize to unknown, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("/x", "GET", 200, time.Millisecond)
	m.IncUpstream("commerce", nil)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("/x", "GET", 200, time.Millisecond)
}
