package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("studyhall_test")

	m.ObserveHTTP("GET", "/api/v1/seats", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/seats", 200, 5*time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/bookings", 409, time.Millisecond)
	m.BookingConflict()
	m.TokensSwept(3)
	m.TokensSwept(0)
	m.ObserveKafka(DirectionPublished, "bookings", nil, time.Millisecond)
	m.ObserveKafka(DirectionPublished, "bookings", errors.New("broker down"), time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/seats", "200")); got != 2 {
		t.Errorf("GET /seats count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/bookings", "409")); got != 1 {
		t.Errorf("POST /bookings 409 count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.bookingConflicts); got != 1 {
		t.Errorf("booking conflicts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.tokensSwept); got != 3 {
		t.Errorf("tokens swept = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.kafkaMessages.WithLabelValues(DirectionPublished, "bookings", "error")); got != 1 {
		t.Errorf("kafka errors = %v, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.BookingConflict()
	m.TokensSwept(1)
	m.ObserveKafka(DirectionConsumed, "t", nil, time.Millisecond)
}

func TestMetrics_Handler(t *testing.T) {
	m := New("studyhall_test")
	m.BookingConflict()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "studyhall_test_booking_conflicts_total 1") {
		t.Errorf("exposition does not contain the conflict counter:\n%s", rec.Body.String())
	}
}
