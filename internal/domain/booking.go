package domain

import "time"

// DateLayout is the storage form of calendar dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	HotelID    int64     `json:"hotel_id"`
	RoomNumber int64     `json:"room_number"`
	Date       time.Time `json:"booking_date"`
}

// BookingWithPrice is a booking joined with the room price billed for it.
type BookingWithPrice struct {
	HotelID    int64     `json:"hotel_id"`
	RoomNumber int64     `json:"room_number"`
	Date       time.Time `json:"booking_date"`
	Price      float64   `json:"price"`
}

type Outcome string

const (
	Confirmed Outcome = "confirmed"
	Rejected  Outcome = "rejected"
)

// ReserveResult is the outcome of one reserve attempt. Booking is set only
// when Outcome is Confirmed.
type ReserveResult struct {
	Outcome Outcome
	Booking *Booking
	Reason  string
}

func (r ReserveResult) Confirmed() bool { return r.Outcome == Confirmed }
