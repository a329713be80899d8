package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_ops/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are non-empty
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveStore("write", nil, time.Millisecond)
	observability.ObserveBooking("rejected")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"hotel_ops_http_requests_total",
		"hotel_ops_store_ops_total",
		`hotel_ops_booking_attempts_total{outcome="rejected"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestLabelErr(t *testing.T) {
	if got := observability.LabelErr(nil); got != "ok" {
		t.Fatalf("nil: %s", got)
	}
	if got := observability.LabelErr(errors.New("boom")); got != "fault" {
		t.Fatalf("err: %s", got)
	}
}

func TestNewLogger_Level(t *testing.T) {
	var sb strings.Builder
	l := observability.NewLogger("prod", "warn", &sb)
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	if strings.Contains(sb.String(), "hidden") || !strings.Contains(sb.String(), "shown") {
		t.Fatalf("unexpected log output: %s", sb.String())
	}
}
