package app

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_ops/internal/adapters/observability"
	"hotel_ops/internal/domain"
)

const (
	DefaultRadius      = 30.0
	DefaultRecentLimit = 5

	// RegularCustomerLimit is fixed; RECENT_LIMIT does not apply to it.
	RegularCustomerLimit = 5
)

// errSlotTaken aborts a reserve unit without a write.
var errSlotTaken = errors.New("slot taken")

// Distance is the planar distance between two points in degrees. It is not a
// geodesic distance; radii are expressed in the same units.
func Distance(a, b domain.Coords) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

type BookingEngine struct {
	store       domain.Store
	dir         *HotelDirectory
	radius      float64
	recentLimit int
}

func NewBookingEngine(s domain.Store, dir *HotelDirectory, radius float64, recentLimit int) *BookingEngine {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	if dir == nil {
		dir = NewHotelDirectory(s, nil, 0)
	}
	return &BookingEngine{store: s, dir: dir, radius: radius, recentLimit: recentLimit}
}

// IsAvailable is a pure read: true iff no booking holds the exact
// (hotel, room, date) tuple. Reserve repeats the check inside its own unit.
func (e *BookingEngine) IsAvailable(ctx context.Context, hotelID, roomNumber int64, date time.Time) (bool, error) {
	taken, err := e.store.BookingExists(ctx, hotelID, roomNumber, date)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Reserve locks the room, re-checks availability and inserts the booking in
// one atomic unit. Losing a race, or asking for a taken slot, yields a
// Rejected result and no write; only storage faults are errors.
func (e *BookingEngine) Reserve(ctx context.Context, s domain.Session, hotelID, roomNumber int64, date time.Time) (domain.ReserveResult, error) {
	var (
		booking domain.Booking
		reason  string
	)
	err := e.store.RunAtomic(ctx, func(tx domain.Repository) error {
		if _, err := tx.LockRoom(ctx, hotelID, roomNumber); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				reason = "room does not exist"
				return errSlotTaken
			}
			return err
		}
		taken, err := tx.BookingExists(ctx, hotelID, roomNumber, date)
		if err != nil {
			return err
		}
		if taken {
			reason = "room is not available on that date"
			return errSlotTaken
		}
		b := domain.Booking{CustomerID: s.AccountID, HotelID: hotelID, RoomNumber: roomNumber, Date: date}
		id, err := tx.InsertBooking(ctx, b)
		if err != nil {
			if e.store.IsDuplicate(err) {
				reason = "room was booked by someone else"
				return errSlotTaken
			}
			return err
		}
		b.ID = id
		booking = b
		return nil
	})

	l := log.With().Int64("customer", s.AccountID).Int64("hotel", hotelID).
		Int64("room", roomNumber).Str("date", date.Format(domain.DateLayout)).Logger()
	switch {
	case errors.Is(err, errSlotTaken):
		observability.ObserveBooking(string(domain.Rejected))
		l.Warn().Str("reason", reason).Msg("booking rejected")
		return domain.ReserveResult{Outcome: domain.Rejected, Reason: reason}, nil
	case err != nil:
		observability.ObserveBooking("fault")
		l.Error().Err(err).Msg("booking failed")
		return domain.ReserveResult{}, err
	}
	observability.ObserveBooking(string(domain.Confirmed))
	l.Info().Int64("booking", booking.ID).Msg("booking confirmed")
	return domain.ReserveResult{Outcome: domain.Confirmed, Booking: &booking}, nil
}

// NearbyHotels returns hotels within the configured radius of (lat, lon),
// closest first.
func (e *BookingEngine) NearbyHotels(ctx context.Context, lat, lon float64) ([]domain.HotelSummary, error) {
	hs, err := e.dir.Hotels(ctx)
	if err != nil {
		return nil, err
	}
	at := domain.Coords{Lat: lat, Lon: lon}
	out := []domain.HotelSummary{}
	for _, h := range hs {
		d := Distance(at, domain.Coords{Lat: h.Lat, Lon: h.Lon})
		if d <= e.radius {
			out = append(out, domain.HotelSummary{ID: h.ID, Name: h.Name, DateEstablished: h.DateEstablished, Distance: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// AvailableRooms lists rooms of hotelID with no booking on date.
func (e *BookingEngine) AvailableRooms(ctx context.Context, hotelID int64, date time.Time) ([]domain.Room, error) {
	return e.store.AvailableRooms(ctx, hotelID, date)
}

// RecentBookings sorts the customer's bookings by date ascending and keeps the
// first recentLimit, which are the oldest ones.
// TODO: switch to the latest bookings once operators sign off on the
// ordering change.
func (e *BookingEngine) RecentBookings(ctx context.Context, s domain.Session) ([]domain.BookingWithPrice, error) {
	return e.store.OldestBookings(ctx, s.AccountID, e.recentLimit)
}
