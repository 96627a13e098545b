package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/artpar/formdesk/adapters/metrics"
)

func TestValidationFailureCounter(t *testing.T) {
	c := metrics.NewWith(prometheus.NewRegistry())

	c.ValidationFailure("Params")
	c.ValidationFailure("Params")
	c.ValidationFailure("Body")

	if got := testutil.ToFloat64(c.ValidationFailures.WithLabelValues("Params")); got != 2 {
		t.Errorf("Params failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ValidationFailures.WithLabelValues("Body")); got != 1 {
		t.Errorf("Body failures = %v, want 1", got)
	}
}

func TestPanicRecoveredCounter(t *testing.T) {
	c := metrics.NewWith(prometheus.NewRegistry())

	c.PanicRecovered()

	if got := testutil.ToFloat64(c.PanicsRecovered); got != 1 {
		t.Errorf("panics recovered = %v, want 1", got)
	}
}

func TestMiddleware(t *testing.T) {
	c := metrics.NewWith(prometheus.NewRegistry())

	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/forms", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("status = %d, middleware must pass the response through", w.Code)
	}
	got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", "/api/forms", "418"))
	if got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if inflight := testutil.ToFloat64(c.RequestsInFlight); inflight != 0 {
		t.Errorf("requests_in_flight = %v, want 0 after completion", inflight)
	}
}
