package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
	"hotel_ops/internal/validation"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Engine *app.BookingEngine
	DB     Pinger
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type nearbyResponse struct {
	Lat   float64               `json:"lat"`
	Lon   float64               `json:"lon"`
	Items []domain.HotelSummary `json:"items"`
	Total int                   `json:"total"`
}

type roomsResponse struct {
	HotelID int64         `json:"hotel_id"`
	Date    string        `json:"date"`
	Items   []domain.Room `json:"items"`
	Total   int           `json:"total"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.health)
	s.mux.Get("/v1/hotels/nearby", h.nearbyHotels)
	s.mux.Get("/v1/hotels/{id}/rooms", h.availableRooms)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("health check failed")
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "database unreachable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) nearbyHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := validation.ParseLatitude(q.Get("lat"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid latitude", err.Error())
		return
	}
	lon, err := validation.ParseLongitude(q.Get("lon"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid longitude", err.Error())
		return
	}
	hs, err := h.Engine.NearbyHotels(r.Context(), lat, lon)
	if err != nil {
		log.Error().Err(err).Msg("nearby hotels failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not list hotels")
		return
	}
	writeJSON(w, r, nearbyResponse{Lat: lat, Lon: lon, Items: hs, Total: len(hs)})
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	date, err := validation.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid date", err.Error())
		return
	}
	rooms, err := h.Engine.AvailableRooms(r.Context(), id, date)
	if err != nil {
		log.Error().Err(err).Int64("hotel", id).Msg("available rooms failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not list rooms")
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	writeJSON(w, r, roomsResponse{HotelID: id, Date: date.Format(domain.DateLayout), Items: rooms, Total: len(rooms)})
}
