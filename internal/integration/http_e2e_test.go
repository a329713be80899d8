package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	server "hotel_ops/internal/adapters/http_server"
	"hotel_ops/internal/adapters/observability"
	redisad "hotel_ops/internal/adapters/redis"
	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
	"hotel_ops/internal/storage/sqlstore/sqlstoretest"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, string(b)
}

// The api stack end to end: sqlite store, redis-backed hotel directory,
// chi router with middleware, metrics endpoint.
func TestHTTP_EndToEnd_NearbyThroughCache(t *testing.T) {
	store := sqlstoretest.Open(t)
	m := store.AddUser("Mia", domain.RoleManager)
	store.AddHotel("Harbor", 34.0001, -117.0001, m)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	dir := app.NewHotelDirectory(store, cache, time.Minute)
	engine := app.NewBookingEngine(store, dir, 0, 0)

	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{Engine: engine, DB: okPinger{}})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	status, body := getBody(t, ts.URL+"/v1/hotels/nearby?lat=34&lon=-117")
	if status != http.StatusOK {
		t.Fatalf("status %d: %s", status, body)
	}
	var out struct {
		Items []domain.HotelSummary `json:"items"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Name != "Harbor" {
		t.Fatalf("unexpected items: %+v", out.Items)
	}
	if !mr.Exists("hotels:all") {
		t.Fatalf("hotel list was not cached")
	}

	// a hotel added behind the cache stays invisible until invalidation
	store.AddHotel("Pier", 34.0002, -117.0002, m)
	_, body = getBody(t, ts.URL+"/v1/hotels/nearby?lat=34&lon=-117")
	if strings.Contains(body, "Pier") {
		t.Fatalf("expected cached list, got %s", body)
	}
	if err := dir.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, body = getBody(t, ts.URL+"/v1/hotels/nearby?lat=34&lon=-117")
	if !strings.Contains(body, "Pier") {
		t.Fatalf("expected fresh list, got %s", body)
	}

	status, body = getBody(t, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("metrics status %d", status)
	}
	want := fmt.Sprintf(`hotel_ops_http_requests_total{method="GET",route=%q,status="200"}`, "/v1/hotels/nearby")
	if !strings.Contains(body, want) {
		t.Fatalf("metrics missing %s", want)
	}
	if !strings.Contains(body, `hotel_ops_cache_events_total{cache="redis",event="hit"}`) {
		t.Fatalf("metrics missing cache hit counter")
	}
}
