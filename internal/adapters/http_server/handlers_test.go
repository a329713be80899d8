package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "hotel_ops/internal/adapters/http_server"
	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
	"hotel_ops/internal/storage/sqlstore/sqlstoretest"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func newTestServer(t *testing.T, db server.Pinger) (http.Handler, *sqlstoretest.Store) {
	s := sqlstoretest.Open(t)
	srv := server.New()
	srv.MountHandlers(&server.Handlers{Engine: app.NewBookingEngine(s, nil, 0, 0), DB: db})
	return srv.Mux(), s
}

func get(h http.Handler, url string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, pinger{})
	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	h, _ = newTestServer(t, pinger{err: errors.New("down")})
	rec = get(h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestNearbyHotels(t *testing.T) {
	h, s := newTestServer(t, pinger{})
	m := s.AddUser("Mia", domain.RoleManager)
	s.AddHotel("Harbor", 34.0001, -117.0001, m)
	s.AddHotel("Faraway", 60, 10, m)

	rec := get(h, "/v1/hotels/nearby?lat=34&lon=-117")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []domain.HotelSummary `json:"items"`
		Total int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "Harbor", body.Items[0].Name)

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	rec = get(h, "/v1/hotels/nearby?lat=34&lon=-117", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestNearbyHotels_BadCoordinates(t *testing.T) {
	h, _ := newTestServer(t, pinger{})
	for _, url := range []string{
		"/v1/hotels/nearby?lat=90.0000001&lon=0",
		"/v1/hotels/nearby?lat=0&lon=181",
		"/v1/hotels/nearby?lat=abc&lon=0",
		"/v1/hotels/nearby",
	} {
		rec := get(h, url)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestAvailableRooms(t *testing.T) {
	h, s := newTestServer(t, pinger{})
	m := s.AddUser("Mia", domain.RoleManager)
	hotel := s.AddHotel("Harbor", 34, -117, m)
	s.AddRoom(hotel, 101, 120)
	s.AddRoom(hotel, 102, 90)
	s.AddBooking(s.AddUser("Cal", domain.RoleCustomer), hotel, 101, "2024-01-15")

	rec := get(h, "/v1/hotels/1/rooms?date=01/15/2024")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Date  string        `json:"date"`
		Items []domain.Room `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-01-15", body.Date)
	require.Len(t, body.Items, 1)
	assert.Equal(t, int64(102), body.Items[0].RoomNumber)

	rec = get(h, "/v1/hotels/1/rooms?date=02/30/2024")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = get(h, "/v1/hotels/x/rooms?date=01/15/2024")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(h, "/v1/hotels/99/rooms?date=01/15/2024")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}
